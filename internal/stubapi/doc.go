// Package stubapi is a development backend that speaks the grading API.
//
// It keeps everything in memory: uploads are hashed with SHA-256 so a repeated
// essay is answered from cache, and new essays become asynchronous jobs graded
// by a pluggable Grader. Sessions are a "token" cookie issued by /api/login.
package stubapi

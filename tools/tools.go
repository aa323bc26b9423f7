//go:build tools

// Package tools documents the development tools used with this module.
// None of them are linked into the jobboard binaries.
package tools

// mockgen regenerates the gomock doubles in internal/mocks:
//
//	go generate ./internal/mocks
//
// The directives pin go.uber.org/mock/mockgen@v0.6.0 so the generator matches
// the gomock runtime in go.mod.
//
// Air reloads cmd/jobboard on change while working on templates with DEV=true:
//
//	go install github.com/air-verse/air@v1.63.0
//	air --build.cmd "go build -o ./tmp/jobboard ./cmd/jobboard" --build.bin ./tmp/jobboard

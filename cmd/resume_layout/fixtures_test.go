package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTestFile writes content into dir/name and returns the path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

const testDocumentJSON = `{
	"personal": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"sections": [
		{"kind": "summary", "summary": "Wrote the first published algorithm."},
		{"kind": "work", "work": [{"position": "Analyst", "company": "Analytical Engine", "description": "Notes on the engine."}]},
		{"kind": "skills", "skill_categories": [{"name": "Mathematics", "skills": ["Bernoulli numbers"]}]}
	]
}`

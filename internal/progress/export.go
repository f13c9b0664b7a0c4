package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"leettrack/internal/llm"
)

var (
	compiledArtifact     *jsonschema.Schema
	compiledArtifactOnce sync.Once
)

func artifactValidator() *jsonschema.Schema {
	compiledArtifactOnce.Do(func() {
		s, err := llm.CompileSchema("progress_artifact", artifactSchema)
		if err != nil {
			// The schema is a package constant; failing to compile it is a
			// programming error, not a runtime condition.
			panic(fmt.Sprintf("compile progress artifact schema: %v", err))
		}
		compiledArtifact = s
	})
	return compiledArtifact
}

// Export writes the full aggregate as indented JSON, suitable for backup
// or transfer to another machine.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.p); err != nil {
		return fmt.Errorf("export progress: %w", err)
	}
	return nil
}

// Import replaces the aggregate with the document read from r, then
// persists. Unreadable, malformed, or schema-invalid documents are
// ignored without error: the current state is kept untouched. Import is
// all-or-nothing; it never merges.
func (s *Store) Import(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	if err := artifactValidator().Validate(parsed); err != nil {
		return nil
	}

	p := defaultProgress()
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	normalize(&p)

	s.p = p
	return s.persist()
}

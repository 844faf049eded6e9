package extract

import (
	"encoding/json"
	"os"
)

// FileSink persists the last raw extraction response as a debug
// artifact, overwritten on every attempt. Writes are best-effort.
type FileSink struct {
	Path string
}

// Write dumps the raw response to the sink path. Failures are ignored;
// the artifact is a debugging aid, never a dependency.
func (s *FileSink) Write(raw map[string]interface{}) {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(s.Path, data, 0o644)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-insight/internal/pipeline"
	"github.com/jonathan/resume-insight/internal/types"
)

// analysisStream writes one analysis run as Server-Sent Events. A live
// run emits stage and fragment events while the pipeline executes; a
// cache hit emits only replayed fragments. Either way the stream ends
// with a result event followed by complete.
type analysisStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newAnalysisStream(w http.ResponseWriter) (*analysisStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	return &analysisStream{w: w, flusher: flusher}, nil
}

// send writes one event and flushes it to the client. Marshal failures
// drop the event; the stream itself stays usable.
func (s *analysisStream) send(event string, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, encoded)
	s.flusher.Flush()
}

// Stage reports a pipeline stage transition.
func (s *analysisStream) Stage(event pipeline.ProgressEvent) {
	s.send("stage", event)
}

// Fragment forwards one chunk of streamed model output.
func (s *analysisStream) Fragment(text string) {
	s.send("fragment", map[string]string{"text": text})
}

// Finish emits the full result and closes the stream with a complete
// event carrying the fingerprint and final status.
func (s *analysisStream) Finish(result *types.AnalysisResult) {
	s.send("result", result)
	s.send("complete", map[string]string{
		"fingerprint": result.Fingerprint,
		"status":      string(result.Status),
	})
}

// Fail reports a run that produced no result at all.
func (s *analysisStream) Fail(message string) {
	s.send("error", map[string]string{"error": message})
}

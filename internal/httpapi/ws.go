package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/shuddhi-ai/shuddhi/pkg/pipeline"
)

// wsEvent is the single message envelope of the correction websocket. Type
// selects which fields are populated:
//
//   - "stages":   Stages
//   - "progress": Percent, Stage
//   - "result":   Result
//   - "error":    Error
type wsEvent struct {
	Type    string           `json:"type"`
	Stages  []pipeline.Stage `json:"stages,omitempty"`
	Percent int              `json:"percent,omitempty"`
	Stage   string           `json:"stage,omitempty"`
	Result  *correctResponse `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// handleCorrectWS runs one correction over a websocket. The client sends a
// single correctRequest; the server replies with a "stages" event, then
// "progress" events at pass boundaries, then one "result" or "error" event,
// and closes the connection.
func (s *Server) handleCorrectWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	ctx := r.Context()

	var req correctRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		_ = conn.Close(websocket.StatusInvalidFramePayloadData, "invalid request")
		return
	}

	// Announce the pass layout so the client can render a progress bar
	// before the first pass completes.
	stages := s.newPipeline(ctx, nil).Stages()
	if err := wsjson.Write(ctx, conn, wsEvent{Type: "stages", Stages: stages}); err != nil {
		return
	}

	// The pipeline runs synchronously in this handler, so writing from the
	// progress callback is sequential with the result write.
	progress := func(percent int, stage string) {
		ev := wsEvent{Type: "progress", Percent: percent, Stage: stage}
		if err := wsjson.Write(ctx, conn, ev); err != nil {
			slog.Debug("progress write failed", "err", err)
		}
	}

	resp, err := s.runCorrection(ctx, req.Text, progress)
	if err != nil {
		_ = wsjson.Write(ctx, conn, wsEvent{Type: "error", Error: wsErrorMessage(err)})
		_ = conn.Close(websocket.StatusNormalClosure, "done")
		return
	}

	if err := wsjson.Write(ctx, conn, wsEvent{Type: "result", Result: resp}); err != nil {
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "done")
}

// wsErrorMessage renders a run failure for the websocket error event.
func wsErrorMessage(err error) string {
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return "text is empty"
	}
	var passErr *pipeline.PassError
	if errors.As(err, &passErr) {
		return passErr.Error()
	}
	return "internal error"
}

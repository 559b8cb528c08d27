package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sync"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/config"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

type CodecHandler struct {
	log     *logrus.Logger
	ws      *config.WebSocket
	query   *schema.Decoder
	maxBody int64
	workers int
}

func NewCodecHandler(log *logrus.Logger, ws *config.WebSocket, maxBody int64) *CodecHandler {
	return &CodecHandler{
		log:     log,
		ws:      ws,
		query:   newQueryDecoder(),
		maxBody: maxBody,
		workers: runtime.GOMAXPROCS(0),
	}
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, http.StatusBadRequest, err
	}
	return body, 0, nil
}

// Encode turns a JSON board snapshot into its three strings.
func (h *CodecHandler) Encode(w http.ResponseWriter, r *http.Request) {
	body, status, err := readBody(w, r, h.maxBody)
	if err != nil {
		sendErrorOrLog(w, h.log, status, err)
		return
	}
	state, err := mines.ParseKnownBoardState(body)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	encoded, err := codec.EncodeBoardState(state)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	sendJSONOrLog(w, h.log, encoded)
}

type RenderQuery struct {
	Format string `schema:"format"`
	Reveal bool   `schema:"reveal"`
}

// DecodeQuery decodes board_id, view_state and elapsed_time query
// parameters. With format=text the board is rendered as a grid instead.
func (h *CodecHandler) DecodeQuery(w http.ResponseWriter, r *http.Request) {
	var (
		encoded mines.EncodedBoardState
		render  RenderQuery
		query   = r.URL.Query()
	)
	if err := h.query.Decode(&encoded, query); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	if err := h.query.Decode(&render, query); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	h.decode(w, &encoded, render)
}

// DecodeJSON is DecodeQuery for a JSON encoded record in the body.
func (h *CodecHandler) DecodeJSON(w http.ResponseWriter, r *http.Request) {
	body, status, err := readBody(w, r, h.maxBody)
	if err != nil {
		sendErrorOrLog(w, h.log, status, err)
		return
	}
	encoded, err := mines.ParseEncodedBoardState(body)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	var render RenderQuery
	if err := h.query.Decode(&render, r.URL.Query()); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	h.decode(w, encoded, render)
}

func (h *CodecHandler) decode(w http.ResponseWriter, encoded *mines.EncodedBoardState, render RenderQuery) {
	state, err := codec.DecodeBoardState(encoded)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	switch render.Format {
	case "", "json":
		sendJSONOrLog(w, h.log, state)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, mines.NewGrid(state, render.Reveal).ToString(state.Width))
	default:
		sendErrorOrLog(w, h.log, http.StatusBadRequest, fmt.Errorf("unknown format %q", render.Format))
	}
}

const (
	OpEncode = "encode"
	OpDecode = "decode"
)

// WorkerRequest asks for one codec operation. ID is echoed back so that
// callers can match responses, which may arrive out of order.
type WorkerRequest struct {
	ID      string          `json:"id,omitempty"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

type WorkerResponse struct {
	ID     string `json:"id,omitempty"`
	Op     string `json:"op"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func RunWorkerRequest(req WorkerRequest) WorkerResponse {
	resp := WorkerResponse{ID: req.ID, Op: req.Op}
	var err error
	switch req.Op {
	case OpEncode:
		var state *mines.KnownBoardState
		if state, err = mines.ParseKnownBoardState(req.Payload); err == nil {
			resp.Result, err = codec.EncodeBoardState(state)
		}
	case OpDecode:
		var encoded *mines.EncodedBoardState
		if encoded, err = mines.ParseEncodedBoardState(req.Payload); err == nil {
			resp.Result, err = codec.DecodeBoardState(encoded)
		}
	default:
		err = fmt.Errorf("unknown op %q", req.Op)
	}
	if err != nil {
		resp.Result = nil
		resp.Error = err.Error()
	}
	return resp
}

// Worker serves codec requests over a websocket, running up to one per CPU
// at a time.
func (h *CodecHandler) Worker(w http.ResponseWriter, r *http.Request) {
	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.maxBody)

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(h.workers)
	send := func(resp WorkerResponse) error {
		mu.Lock()
		defer mu.Unlock()
		return conn.WriteJSON(resp)
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("worker read failed")
			}
			break
		}
		if mt != websocket.TextMessage {
			continue
		}
		var req WorkerRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if err := send(WorkerResponse{Error: "malformed request: " + err.Error()}); err != nil {
				break
			}
			continue
		}
		g.Go(func() error {
			resp := RunWorkerRequest(req)
			h.log.WithFields(logrus.Fields{
				"id":    req.ID,
				"op":    req.Op,
				"error": resp.Error,
			}).Debug("worker request")
			return send(resp)
		})
	}
	if err := g.Wait(); err != nil {
		h.log.WithError(err).Warn("worker write failed")
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/config"
	"github.com/vancomm/minesweeper-codec/internal/mines"
	"github.com/vancomm/minesweeper-codec/internal/repository"
)

// ShareStore is implemented by [repository.Queries].
type ShareStore interface {
	CreateShare(ctx context.Context, params repository.CreateShareParams) (*repository.Share, error)
	FetchShare(ctx context.Context, shareID uuid.UUID) (*repository.Share, error)
	FetchShareByState(ctx context.Context, boardID, viewState, elapsedTime string) (*repository.Share, error)
	ListShares(ctx context.Context, filter repository.ShareFilter) ([]repository.Share, error)
	DeleteShare(ctx context.Context, shareID uuid.UUID) error
}

type ShareHandler struct {
	log     *logrus.Logger
	repo    ShareStore
	owners  *config.Signer
	query   *schema.Decoder
	maxBody int64
}

func NewShareHandler(log *logrus.Logger, repo ShareStore, owners *config.Signer, maxBody int64) *ShareHandler {
	return &ShareHandler{
		log:     log,
		repo:    repo,
		owners:  owners,
		query:   newQueryDecoder(),
		maxBody: maxBody,
	}
}

// CreatedShare is a new share with the token its creator needs to delete
// it. The token is only ever handed out here.
type CreatedShare struct {
	*repository.Share
	OwnerToken string `json:"ownerToken"`
}

// Create stores an encoded record. The record is decoded and encoded again
// first, so equal boards always share one row; storing a known board
// returns the existing share with 200 and no owner token instead of 201.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	state, err := codec.DecodeBoardState(encoded)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	canonical, err := codec.EncodeBoardState(state)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	share, err := h.repo.CreateShare(r.Context(), repository.CreateShareParams{
		BoardID:     canonical.BoardID,
		ViewState:   canonical.ViewState,
		ElapsedTime: canonical.ElapsedTime,
		Width:       state.Width,
		Height:      state.Height,
		MineCount:   state.MineCount(),
	})
	if errors.Is(err, repository.ErrConflict) {
		share, err = h.repo.FetchShareByState(
			r.Context(), canonical.BoardID, canonical.ViewState, canonical.ElapsedTime,
		)
		if err != nil {
			h.log.WithError(err).Error("unable to fetch existing share")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		sendJSONOrLog(w, h.log, share)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("unable to create share")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	token, err := h.owners.Sign(jwt.RegisteredClaims{
		Subject:  share.ShareID.String(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	if err != nil {
		h.log.WithError(err).Error("unable to sign owner token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	sendStatusJSONOrLog(w, h.log, http.StatusCreated, CreatedShare{share, token})
}

func (h *ShareHandler) shareID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ShareHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.shareID(w, r)
	if !ok {
		return
	}
	share, err := h.repo.FetchShare(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("unable to fetch share")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	sendJSONOrLog(w, h.log, share)
}

// isOwner reports whether r carries the owner token of share id as a
// bearer token.
func (h *ShareHandler) isOwner(r *http.Request, id uuid.UUID) bool {
	tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, err := h.owners.ParseWithClaims(tokenString, &claims); err != nil {
		h.log.WithError(err).Debug("rejected owner token")
		return false
	}
	return claims.Subject == id.String()
}

// Delete removes a share. Only the holder of the owner token returned by
// [ShareHandler.Create] may do so.
func (h *ShareHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.shareID(w, r)
	if !ok {
		return
	}
	if !h.isOwner(r, id) {
		sendErrorOrLog(w, h.log, http.StatusForbidden, errors.New("owner token required"))
		return
	}
	err := h.repo.DeleteShare(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("unable to delete share")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ListSharesQuery struct {
	Width     *int `schema:"width"`
	Height    *int `schema:"height"`
	MineCount *int `schema:"mine_count"`
	Limit     int  `schema:"limit"`
}

func (h *ShareHandler) List(w http.ResponseWriter, r *http.Request) {
	var q ListSharesQuery
	if err := h.query.Decode(&q, r.URL.Query()); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}
	shares, err := h.repo.ListShares(r.Context(), repository.ShareFilter(q))
	if err != nil {
		h.log.WithError(err).Error("unable to list shares")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if shares == nil {
		shares = []repository.Share{}
	}
	sendJSONOrLog(w, h.log, shares)
}

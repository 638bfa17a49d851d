package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"kokorotts/internal/app/processor"
	"kokorotts/pkg/artifacts"
	"kokorotts/pkg/slg"

	"github.com/go-chi/chi/v5"
)

const defaultMaxBodyBytes = 1 << 20

type generateReq struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type generateResp struct {
	Success bool   `json:"success"`
	AudioID string `json:"audio_id"`
	Message string `json:"message"`
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, &errResp{Error: msg})
}

func (api *API) generate(w http.ResponseWriter, r *http.Request) {
	logger := slg.GetSlog(r.Context())

	maxBody := api.cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	req := &generateReq{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, err := api.processor.Generate(r.Context(), req.Text, req.Voice)
	if err != nil {
		if errors.Is(err, processor.ErrEmptyText) {
			writeErr(w, http.StatusBadRequest, "Please enter some text")
			return
		}

		logger.Error("failed to generate audio", "err", err)
		writeErr(w, http.StatusInternalServerError, "Failed to generate audio: "+err.Error())

		return
	}

	writeJSON(w, http.StatusOK, &generateResp{
		Success: true,
		AudioID: id,
		Message: "Audio generated successfully!",
	})
}

func (api *API) audio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "audio_id")

	body, err := api.processor.Fetch(r.Context(), id)
	if err != nil {
		api.lookupErr(w, r, id, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", artifacts.ContentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		slg.GetSlog(r.Context()).Warn("failed to stream audio", "id", id, "err", err)
	}
}

func (api *API) download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "audio_id")

	d, err := api.processor.Download(r.Context(), id)
	if err != nil {
		api.lookupErr(w, r, id, err)
		return
	}
	defer d.Body.Close()

	w.Header().Set("Content-Type", artifacts.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, d.Body); err != nil {
		slg.GetSlog(r.Context()).Warn("failed to stream download", "id", id, "err", err)
	}
}

func (api *API) lookupErr(w http.ResponseWriter, r *http.Request, id string, err error) {
	if processor.IsNotFound(err) {
		slg.GetSlog(r.Context()).Warn("audio not found", "id", id)
		writeErr(w, http.StatusNotFound, "Audio not found")

		return
	}

	slg.GetSlog(r.Context()).Error("failed to read audio", "id", id, "err", err)
	writeErr(w, http.StatusInternalServerError, "failed to read audio")
}

func (api *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.processor.Health())
}

func (api *API) voices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.processor.Voices())
}

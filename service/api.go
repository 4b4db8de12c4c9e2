package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/larkery/tank-model/tank"
)

type setHeaterPowerRequest struct {
	PowerKW float64 `json:"power_kw"`
}

type drawWaterRequest struct {
	VolumeLiters float64 `json:"volume_liters"`
}

type setStateRequest struct {
	LayerTemperature []float64 `json:"layer_temperature"`
}

type availableVolumeResponse struct {
	Target       float64 `json:"target_temperature"`
	VolumeLiters float64 `json:"volume_liters"`
}

type historyResponse struct {
	Ticks []TickRecord `json:"ticks"`
	Draws []DrawRecord `json:"draws"`
}

type api struct {
	svc     *Service
	metrics *Metrics
}

// NewRouter builds the HTTP surface over a Service: status and
// available-volume queries, the three commands of the reference service
// layer, the history window, and the Prometheus endpoint.
func NewRouter(svc *Service, metrics *Metrics) *mux.Router {
	a := &api{svc: svc, metrics: metrics}

	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/tank/status", a.getStatus).Methods("GET")
	r.HandleFunc("/tank/available_volume", a.getAvailableVolume).Methods("GET")
	r.HandleFunc("/tank/history", a.getHistory).Methods("GET")
	r.HandleFunc("/tank/heater", a.postHeaterPower).Methods("POST")
	r.HandleFunc("/tank/draw", a.postDrawWater).Methods("POST")
	r.HandleFunc("/tank/state", a.putState).Methods("PUT")
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
	return r
}

// Handler wraps the router with request logging.
func Handler(router *mux.Router) http.Handler {
	return handlers.LoggingHandler(logrus.StandardLogger().Writer(), router)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (a *api) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.svc.Status())
}

func (a *api) getAvailableVolume(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("target"); raw != "" {
		target, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "target must be a number", http.StatusBadRequest)
			return
		}
		volume, err := a.svc.AvailableVolumeAt(target)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, availableVolumeResponse{Target: target, VolumeLiters: volume})
		return
	}
	writeJSON(w, availableVolumeResponse{
		Target:       a.svc.cfg.UseTemperature,
		VolumeLiters: a.svc.AvailableVolume(),
	})
}

func (a *api) getHistory(w http.ResponseWriter, _ *http.Request) {
	ticks, draws := a.svc.History()
	writeJSON(w, historyResponse{Ticks: ticks, Draws: draws})
}

func (a *api) postHeaterPower(w http.ResponseWriter, r *http.Request) {
	var req setHeaterPowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := a.svc.SetHeaterPower(req.PowerKW); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a.svc.Status())
}

func (a *api) postDrawWater(w http.ResponseWriter, r *http.Request) {
	var req drawWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := a.svc.UseWater(req.VolumeLiters); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a.svc.Status())
}

func (a *api) putState(w http.ResponseWriter, r *http.Request) {
	var req setStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := a.svc.SetState(req.LayerTemperature); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a.svc.Status())
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("encoding response: %v", err)
	}
}

// writeError maps domain rejections to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, tank.ErrTargetNotAboveInlet) || errors.Is(err, tank.ErrEmptyState) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

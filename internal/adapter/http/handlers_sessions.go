package adapthttp

import (
	"net/http"

	"physiosheet/internal/app"
)

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		sessions, err := s.timesheet.QuerySessions(r.Context(), acct.ID, acct.Role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})

	case http.MethodPost:
		var body struct {
			PatientName      string `json:"patientName"`
			TreatmentType    string `json:"treatmentType"`
			DurationMinutes  int    `json:"durationMinutes"`
			SignatureDataURL string `json:"signatureDataUrl"`
			Notes            string `json:"notes"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		session, err := s.timesheet.AppendSession(r.Context(), acct, app.SessionInput{
			PatientName:      body.PatientName,
			TreatmentType:    body.TreatmentType,
			DurationMinutes:  body.DurationMinutes,
			SignatureDataURL: body.SignatureDataURL,
			Notes:            body.Notes,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"session": session})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTherapists(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	therapists, err := s.timesheet.ListTherapists(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"therapists": therapists})
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthCheck struct {
	Status string `json:"status"`
}

type HealthResponse map[string]HealthCheck

// Request bodies as documented. Handlers keep their own local copies.

// questPathParams declares the {questID} path parameter so the reflector
// accepts operations on parameterized paths.
type questPathParams struct {
	QuestID string `path:"questID"`
}

type StartRequest struct {
	questPathParams
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ScanRequest struct {
	questPathParams
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type AnswerRequest struct {
	questPathParams
	CheckpointID string `json:"checkpointId"`
	Answer       string `json:"answer"`
}

type HintRequest struct {
	questPathParams
	CheckpointID string `json:"checkpointId"`
}

type HintResponse struct {
	Hint      string `json:"hint"`
	HintsUsed int    `json:"hintsUsed"`
	Remaining int    `json:"remaining"`
}

type ScanResponse struct {
	Result     string          `json:"result"`
	Checkpoint *checkpointView `json:"checkpoint,omitempty"`
	Distance   string          `json:"distance,omitempty"`
	Started    bool            `json:"started,omitempty"`
	Next       string          `json:"next,omitempty"`
}

type AnswerResponse struct {
	Correct    bool            `json:"correct"`
	Completed  bool            `json:"completed,omitempty"`
	Next       *checkpointView `json:"next,omitempty"`
	Completion *completionView `json:"completion,omitempty"`
}

type QuestListResponse struct {
	Quests []questSummary `json:"quests"`
}

type HistoryResponse struct {
	Completions []completionView `json:"completions"`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "Sydney Quest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Sydney scavenger-hunt quests. All /api routes except /api/events require an X-Device-ID header.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/quests
	listQuests, _ := r.NewOperationContext(http.MethodGet, "/api/quests")
	listQuests.SetSummary("List quests")
	listQuests.SetDescription("Returns active and upcoming quests. Pass lat and lng query parameters to get distance and proximity to each start point.")
	listQuests.AddRespStructure(QuestListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuests.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(listQuests)

	// GET /api/quests/{questID}
	getQuest, _ := r.NewOperationContext(http.MethodGet, "/api/quests/{questID}")
	getQuest.SetSummary("Quest detail")
	getQuest.SetDescription("Returns a quest with its checkpoint route. Answers and hints are never included.")
	getQuest.AddReqStructure(questPathParams{})
	getQuest.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQuest)

	// GET /api/quests/{questID}/progress
	getProgress, _ := r.NewOperationContext(http.MethodGet, "/api/quests/{questID}/progress")
	getProgress.SetSummary("Quest progress")
	getProgress.SetDescription("Returns the device's position in the quest, or the completion record once finished.")
	getProgress.AddReqStructure(questPathParams{})
	getProgress.AddRespStructure(progressView{}, openapi.WithHTTPStatus(http.StatusOK))
	getProgress.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getProgress)

	// POST /api/quests/{questID}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/quests/{questID}/start")
	postStart.SetSummary("Start quest")
	postStart.SetDescription("Begins the quest if the device is inside the start checkpoint's geofence. Idempotent.")
	postStart.AddReqStructure(StartRequest{})
	postStart.AddRespStructure(progressView{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/quests/{questID}/scan
	postScan, _ := r.NewOperationContext(http.MethodPost, "/api/quests/{questID}/scan")
	postScan.SetSummary("Scan a marker")
	postScan.SetDescription("Validates a scanned marker code at the reported position. Scanning the start marker begins the quest. Failed scans change nothing and are safe to retry.")
	postScan.AddReqStructure(ScanRequest{})
	postScan.AddRespStructure(ScanResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postScan.AddRespStructure(ScanResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postScan.AddRespStructure(ScanResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postScan)

	// POST /api/quests/{questID}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/quests/{questID}/answer")
	postAnswer.SetSummary("Answer a checkpoint question")
	postAnswer.SetDescription("Checks the answer for the next checkpoint in sequence. A correct answer advances progress; answering the finish checkpoint completes the quest and issues a voucher.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// POST /api/quests/{questID}/hint
	postHint, _ := r.NewOperationContext(http.MethodPost, "/api/quests/{questID}/hint")
	postHint.SetSummary("Request a hint")
	postHint.SetDescription("Reveals the next hint on the checkpoint's three-step ladder. Saturates at the last hint.")
	postHint.AddReqStructure(HintRequest{})
	postHint.AddRespStructure(HintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postHint)

	// GET /api/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/history")
	getHistory.SetSummary("Completion history")
	getHistory.SetDescription("Returns the device's completed quests with vouchers.")
	getHistory.AddRespStructure(HistoryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHistory)

	// GET /api/device
	getDevice, _ := r.NewOperationContext(http.MethodGet, "/api/device")
	getDevice.SetSummary("Device preferences")
	getDevice.SetDescription("Returns onboarding and permission state for the device. Unknown devices get defaults.")
	getDevice.AddRespStructure(DevicePrefs{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getDevice)

	// PUT /api/device
	putDevice, _ := r.NewOperationContext(http.MethodPut, "/api/device")
	putDevice.SetSummary("Update device preferences")
	putDevice.AddReqStructure(DevicePrefs{})
	putDevice.AddRespStructure(DevicePrefs{}, openapi.WithHTTPStatus(http.StatusOK))
	putDevice.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putDevice)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of quest updates for a device. Pass the device id as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

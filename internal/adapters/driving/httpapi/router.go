// Package httpapi serves the list, history, query and presentation
// operations over HTTP. It doubles as an Azure Functions custom handler.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driving"
)

var errMissingListService = errors.New("list service dependency required")

// Dependencies are the services behind the routes. Only Lists is required.
type Dependencies struct {
	Lists         driving.ListService
	History       driving.HistoryService
	Query         driving.QueryService
	Presentations driving.PresentationService
	Logger        *zap.Logger
	// AllowOrigins defaults to any origin.
	AllowOrigins []string
}

// NewHTTPHandler builds the router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Lists == nil {
		return nil, errMissingListService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "x-functions-key"},
		MaxAge:       12 * time.Hour,
	}))

	h := &handler{
		lists:         deps.Lists,
		history:       deps.History,
		query:         deps.Query,
		presentations: deps.Presentations,
		logger:        logger,
	}

	router.GET("/healthz", h.handleHealth)

	api := router.Group("/api")
	api.GET("/get_list", h.handleGetList)
	api.POST("/get_list", h.handleGetList)
	api.GET("/get_sharepoint_data", h.handleSharePointData)
	api.POST("/get_sharepoint_data", h.handleSharePointData)
	api.POST("/cosmosdbquery", h.handleVersionQuery)
	api.POST("/model_response", h.handleModelResponse)
	api.POST("/pptx_data", h.handlePresentation)

	router.POST("/sharepoint_timer_trigger", h.handleTimer)

	return router, nil
}

type handler struct {
	lists         driving.ListService
	history       driving.HistoryService
	query         driving.QueryService
	presentations driving.PresentationService
	logger        *zap.Logger
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownSchema),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidModel):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("operation", op), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("operation", op), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type listRequestPayload struct {
	ListName string `json:"list_name"`
}

func (h *handler) handleGetList(c *gin.Context) {
	name := strings.TrimSpace(c.Query("list_name"))
	if name == "" && c.Request.ContentLength != 0 {
		var request listRequestPayload
		if err := c.ShouldBindJSON(&request); err == nil {
			name = strings.TrimSpace(request.ListName)
		}
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass a list_name on the query string or in the request body"})
		return
	}

	items, err := h.lists.Get(c.Request.Context(), name)
	if err != nil {
		h.fail(c, "get_list", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) handleSharePointData(c *gin.Context) {
	name := strings.TrimSpace(c.Query("sharepoint_list_name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass a sharepoint_list_name on the query string"})
		return
	}
	returnResponse := queryBool(c, "return_response", true)

	ctx := c.Request.Context()
	result, err := h.lists.Upload(ctx, name)
	if err != nil {
		h.fail(c, "get_sharepoint_data", err)
		return
	}
	if !returnResponse {
		c.JSON(http.StatusOK, result)
		return
	}

	items, err := h.lists.Get(ctx, name)
	if err != nil {
		h.fail(c, "get_sharepoint_data", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func queryBool(c *gin.Context, key string, fallback bool) bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return b
}

type versionQueryPayload struct {
	ID              domain.Value `json:"ID"`
	VersionCategory string       `json:"VersionCategory"`
	StartDate       string       `json:"startdate"`
	EndDate         string       `json:"enddate"`
}

func (h *handler) handleVersionQuery(c *gin.Context) {
	if h.history == nil {
		h.fail(c, "cosmosdbquery", domain.ErrNotConfigured)
		return
	}

	var request versionQueryPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	id, ok := identity(request.ID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID must be a number or a string"})
		return
	}

	result, err := h.history.Compare(c.Request.Context(), domain.VersionQuery{
		ID:              id,
		VersionCategory: request.VersionCategory,
		StartDate:       request.StartDate,
		EndDate:         request.EndDate,
	})
	if err != nil {
		h.fail(c, "cosmosdbquery", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// identity renders an item id given as a JSON number or string.
func identity(v domain.Value) (string, bool) {
	switch v.Kind() {
	case domain.KindNull:
		return "", true
	case domain.KindString:
		s, _ := v.Text()
		return strings.TrimSpace(s), true
	case domain.KindNumber:
		if n, ok := v.Int(); ok {
			return strconv.FormatInt(n, 10), true
		}
	}
	return "", false
}

type modelRequestPayload struct {
	UserInput      string `json:"user_input"`
	DeploymentName string `json:"deployment_name"`
}

func (h *handler) handleModelResponse(c *gin.Context) {
	if h.query == nil {
		h.fail(c, "model_response", domain.ErrNotConfigured)
		return
	}

	var request modelRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	translation, err := h.query.Translate(c.Request.Context(), request.UserInput, request.DeploymentName)
	if err != nil {
		h.fail(c, "model_response", err)
		return
	}
	c.JSON(http.StatusOK, translation)
}

type presentationRequestPayload struct {
	FilePath string `json:"file_path"`
}

func (h *handler) handlePresentation(c *gin.Context) {
	if h.presentations == nil {
		h.fail(c, "pptx_data", domain.ErrNotConfigured)
		return
	}

	var request presentationRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	slides, err := h.presentations.Extract(c.Request.Context(), request.FilePath)
	if err != nil {
		h.fail(c, "pptx_data", err)
		return
	}
	c.JSON(http.StatusOK, slides)
}

// invocationResponse is the custom handler reply to a Functions host.
type invocationResponse struct {
	Outputs     map[string]any `json:"Outputs"`
	Logs        []string       `json:"Logs"`
	ReturnValue any            `json:"ReturnValue"`
}

func (h *handler) handleTimer(c *gin.Context) {
	results, err := h.lists.SyncAll(c.Request.Context())

	response := invocationResponse{Outputs: map[string]any{}, Logs: []string{}}
	for _, r := range results {
		response.Logs = append(response.Logs, "run "+r.RunID+": "+strings.Join(r.Lists, ", "))
	}
	if err != nil {
		h.logger.Error("timer sync failed", zap.Error(err))
		response.Logs = append(response.Logs, err.Error())
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	response.ReturnValue = results
	c.JSON(http.StatusOK, response)
}

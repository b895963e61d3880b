package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/services"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/types"
)

type RequestHandler struct {
	requestService services.RequestService
}

func NewRequestHandler(requestService services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (rh *RequestHandler) Create(c *gin.Context) {
	var body models.CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := rh.requestService.Create(c.Request.Context(), models.CreateRequestCommand{
		Caller:        requestdata.GetRequestData(c.Request.Context()),
		CreateRequest: body,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (rh *RequestHandler) CreateScheduled(c *gin.Context) {
	var body models.CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := rh.requestService.CreateScheduled(c.Request.Context(), models.ScheduledRequestCommand{
		Caller:        requestdata.GetRequestData(c.Request.Context()),
		RunAt:         c.Param("runAt"),
		CreateRequest: body,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, ref)
}

func (rh *RequestHandler) UpdateSummary(c *gin.Context) {
	var body models.SummaryModel
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := rh.requestService.UpdateSummary(c.Request.Context(), models.UpdateSummaryCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		Summary:          body.Summary,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (rh *RequestHandler) UpdateAmount(c *gin.Context) {
	var body types.Amount
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := rh.requestService.UpdateAmount(c.Request.Context(), models.UpdateAmountCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		Amount:           body,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (rh *RequestHandler) UpdateStatus(c *gin.Context) {
	var body models.RequestStatusModel
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := rh.requestService.UpdateStatus(c.Request.Context(), models.UpdateRequestStatusCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		Status:           body.Status,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (rh *RequestHandler) GetByReference(c *gin.Context) {
	found, err := rh.requestService.GetByReference(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), c.Param("requestReference"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, found)
}

func (rh *RequestHandler) Newsfeed(c *gin.Context) {
	page, err := rh.requestService.Newsfeed(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), parsePaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RequestHandler) NewsfeedByStatus(c *gin.Context) {
	page, err := rh.requestService.NewsfeedByStatus(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), parsePaging(c), parseStatuses(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RequestHandler) List(c *gin.Context) {
	page, err := rh.requestService.List(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), parsePaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RequestHandler) ListByStatus(c *gin.Context) {
	page, err := rh.requestService.ListByStatus(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), parsePaging(c), parseStatuses(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RequestHandler) UserRequests(c *gin.Context) {
	page, err := rh.requestService.UserRequests(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), parsePaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RequestHandler) UserInvestments(c *gin.Context) {
	page, err := rh.requestService.UserInvestments(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()), parsePaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RequestHandler) Statistics(c *gin.Context) {
	stats, err := rh.requestService.Statistics(c.Request.Context(), requestdata.GetRequestData(c.Request.Context()))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, stats)
}

func parsePaging(c *gin.Context) store.Paging {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	return store.Paging{Index: page, Size: size}
}

// parseStatuses reads a comma-separated status filter, e.g.
// ?status=ACTIVE,COMPLETED.
func parseStatuses(c *gin.Context) []types.RequestStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	var statuses []types.RequestStatus
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		statuses = append(statuses, types.RequestStatus(strings.ToUpper(part)))
	}
	return statuses
}

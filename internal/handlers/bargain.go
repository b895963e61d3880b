package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/services"
)

type BargainHandler struct {
	bargainService services.BargainService
}

func NewBargainHandler(bargainService services.BargainService) *BargainHandler {
	return &BargainHandler{bargainService: bargainService}
}

func (bh *BargainHandler) Add(c *gin.Context) {
	var body models.AddBargainModel
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := bh.bargainService.Add(c.Request.Context(), models.AddBargainCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		Bargain:          body,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, ref)
}

func (bh *BargainHandler) Accept(c *gin.Context) {
	err := bh.bargainService.Accept(c.Request.Context(), models.AcceptBargainCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		BargainReference: c.Param("bargainReference"),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (bh *BargainHandler) Reject(c *gin.Context) {
	err := bh.bargainService.Reject(c.Request.Context(), models.RejectBargainCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		BargainReference: c.Param("bargainReference"),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (bh *BargainHandler) Delete(c *gin.Context) {
	err := bh.bargainService.Delete(c.Request.Context(), models.DeleteBargainCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		BargainReference: c.Param("bargainReference"),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

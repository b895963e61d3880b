package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/services"
	"github.com/yungbote/gigpost-backend/internal/types"
)

type ProviderHandler struct {
	providerService services.ProviderService
}

func NewProviderHandler(providerService services.ProviderService) *ProviderHandler {
	return &ProviderHandler{providerService: providerService}
}

func (ph *ProviderHandler) Add(c *gin.Context) {
	var body models.AddServiceProviderModel
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := ph.providerService.Add(c.Request.Context(), models.AddServiceProviderCommand{
		Caller:           requestdata.GetRequestData(c.Request.Context()),
		RequestReference: c.Param("requestReference"),
		Provider:         body,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, ref)
}

func (ph *ProviderHandler) Remove(c *gin.Context) {
	ph.remove(c, types.DeletedByInvestor)
}

func (ph *ProviderHandler) RemoveByTTL(c *gin.Context) {
	ph.remove(c, types.DeletedByTTLService)
}

func (ph *ProviderHandler) RemoveByPlatform(c *gin.Context) {
	ph.remove(c, types.DeletedByPlatform)
}

func (ph *ProviderHandler) remove(c *gin.Context, deletedBy types.DeletedBy) {
	err := ph.providerService.Remove(c.Request.Context(), models.RemoveServiceProviderCommand{
		Caller:              requestdata.GetRequestData(c.Request.Context()),
		RequestReference:    c.Param("requestReference"),
		InvestmentReference: c.Param("investmentReference"),
		DeletedBy:           deletedBy,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (ph *ProviderHandler) MakePayment(c *gin.Context) {
	ref, err := ph.providerService.MakePayment(c.Request.Context(), models.MakePaymentCommand{
		Caller:              requestdata.GetRequestData(c.Request.Context()),
		RequestReference:    c.Param("requestReference"),
		InvestmentReference: c.Param("investmentReference"),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, ref)
}

package rest_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/g2b-insight/g2b-indexer/internal/api/rest"
	"github.com/g2b-insight/g2b-indexer/internal/mocks"
)

func TestSetupRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockAPIHandler(ctrl)
	router := gin.New()
	rest.SetupRoutes(router, handler)

	accepted := func(c *gin.Context) { c.Status(http.StatusAccepted) }
	handler.EXPECT().Collect(gomock.Any()).Do(accepted)
	handler.EXPECT().GetStatus(gomock.Any()).Do(accepted)
	handler.EXPECT().HealthCheck(gomock.Any()).Do(accepted)

	assert.Equal(t, http.StatusAccepted, serve(router, http.MethodPost, "/collect?days=3").Code)
	assert.Equal(t, http.StatusAccepted, serve(router, http.MethodGet, "/status").Code)
	assert.Equal(t, http.StatusAccepted, serve(router, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/tokens").Code)
}

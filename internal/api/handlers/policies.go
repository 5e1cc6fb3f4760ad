package handlers

import (
	"net/http"

	"microgrid-sim/internal/api/models"

	"github.com/gin-gonic/gin"
)

// PolicyHandler handles reserve policy requests
type PolicyHandler struct{}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler() *PolicyHandler {
	return &PolicyHandler{}
}

// ListPolicies handles GET /api/v1/policies
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	policies := []models.PolicyInfo{
		{
			Name:        "none",
			Description: "No reserve floor: the battery may be drained to empty for load at any time.",
			Parameters:  []models.ParameterInfo{},
		},
		{
			Name:        "seasonal",
			Description: "Protects a winter reserve while the grid is up; during an outage the floor drops to the outage minimum so the reserve can carry the load.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "winter_months",
					Type:        "list",
					Description: "Calendar month numbers (1-12) during which the winter floor applies",
					Default:     []int{},
				},
				{
					Name:        "winter_min_soc",
					Type:        "float",
					Description: "Reserve floor (fraction of capacity) during winter months while the grid is up",
					Default:     0.0,
				},
				{
					Name:        "outage_min_soc",
					Type:        "float",
					Description: "Floor while the grid is down; usually lower than the winter floor",
					Default:     0.0,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

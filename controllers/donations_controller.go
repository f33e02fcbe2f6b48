package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
	services "github.com/phillip/edubridge-go/services"
)

// ---------------- CREATE ----------------
func CreateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		var input services.DonationRequest
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		donation, err := cfg.Donations.Record(ctx, id.User.ID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Donation successful",
			"donation": donation,
		})
	}
}

// ---------------- BY CAMPAIGN ----------------
func ListCampaignDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := cfg.Donations.ListByCampaign(ctx, c.Param("id"), pageRequest(c, services.CampaignDonationsPageSize))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// ---------------- BY DONOR ----------------
func ListUserDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := cfg.Donations.ListByDonor(ctx, id.User.ID, pageRequest(c, services.DonorDonationsPageSize))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// ---------------- STATS ----------------
func GetDonationStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := cfg.Donations.Stats(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

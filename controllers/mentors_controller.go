package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
	services "github.com/phillip/edubridge-go/services"
)

const mentorsPageSize = 10

// ---------------- DIRECTORY ----------------
func ListMentors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := services.MentorQuery{
			Expertise:     strings.TrimSpace(c.Query("expertise")),
			AvailableOnly: strings.EqualFold(c.DefaultQuery("available", "true"), "true"),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := cfg.Mentorships.ListMentors(ctx, query, pageRequest(c, mentorsPageSize))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func GetMentor(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		mentor, err := cfg.Mentorships.GetMentor(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mentor)
	}
}

func GetExpertiseAreas(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		areas, err := cfg.Mentorships.ExpertiseAreas(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, areas)
	}
}

// ---------------- REQUEST ----------------
func RequestMentorship(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		var input services.MentorshipRequest
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		mentorship, err := cfg.Mentorships.Request(ctx, id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Mentorship request sent successfully",
			"mentorship": mentorship,
		})
	}
}

func ListMentorshipRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		requests, err := cfg.Mentorships.RequestsForMentor(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests})
	}
}

// ---------------- RESPOND ----------------
func RespondToRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		var input struct {
			Response string `json:"response"`
		}
		if !bindJSON(c, &input) {
			return
		}
		decision := services.Decision(strings.ToLower(strings.TrimSpace(input.Response)))

		ctx, cancel := requestContext(c)
		defer cancel()

		mentorship, err := cfg.Mentorships.Respond(ctx, id, c.Param("id"), decision)
		if err != nil {
			respondError(c, err)
			return
		}

		verb := "accepted"
		if decision == services.Reject {
			verb = "rejected"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Mentorship request " + verb + " successfully",
			"mentorship": mentorship,
		})
	}
}

// ---------------- LIFECYCLE ----------------
func CompleteMentorship(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		mentorship, err := cfg.Mentorships.Complete(ctx, id, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Mentorship completed",
			"mentorship": mentorship,
		})
	}
}

func CancelMentorship(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		mentorship, err := cfg.Mentorships.Cancel(ctx, id, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Mentorship cancelled",
			"mentorship": mentorship,
		})
	}
}

func ListStudentMentorships(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		mentorships, err := cfg.Mentorships.MentorshipsForStudent(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mentorships": mentorships})
	}
}

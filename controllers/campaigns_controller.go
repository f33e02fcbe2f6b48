package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/phillip/edubridge-go/config"
	models "github.com/phillip/edubridge-go/models"
	services "github.com/phillip/edubridge-go/services"
	store "github.com/phillip/edubridge-go/store"
	utils "github.com/phillip/edubridge-go/utils"
)

const (
	campaignsPageSize = 10
	maxTitleLength    = 200
)

type campaignInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LongDescription string     `json:"longDescription"`
	Category        string     `json:"category"`
	GoalAmount      any        `json:"goalAmount"`
	ImageURL        string     `json:"imageUrl"`
	Location        string     `json:"location"`
	Status          string     `json:"status"`
	EndDate         *time.Time `json:"endDate"`
}

func validTitle(title string) bool {
	return utf8.RuneCountInString(title) <= maxTitleLength
}

func parseGoal(v any) (float64, bool) {
	goal, err := services.ParseAmount(v)
	return goal, err == nil
}

// loadCampaign answers 400/404 itself and returns ok=false in that case.
func loadCampaign(c *gin.Context, cfg *config.Config) (*models.Campaign, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return nil, false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	campaign, err := cfg.Store.FindCampaign(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return nil, false
	}
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return campaign, true
}

// ownedCampaign loads the campaign in the path and checks the caller's NGO
// owns it. Admins do not pass.
func ownedCampaign(c *gin.Context, cfg *config.Config) (*models.Campaign, bool) {
	id, ok := currentIdentity(c, cfg)
	if !ok {
		return nil, false
	}
	ngo, err := id.RequireNGO()
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	campaign, ok := loadCampaign(c, cfg)
	if !ok {
		return nil, false
	}
	if campaign.NGOID != ngo.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own campaigns"})
		return nil, false
	}
	return campaign, true
}

func campaignView(c *gin.Context, cfg *config.Config, campaign models.Campaign) (models.CampaignView, error) {
	ctx, cancel := requestContext(c)
	defer cancel()

	ngo, err := cfg.Store.FindNGO(ctx, campaign.NGOID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.CampaignView{}, err
	}
	return models.NewCampaignView(campaign, ngo, cfg.Now()), nil
}

// ---------------- LIST ----------------
func ListCampaigns(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Build filter ---
		filter := store.CampaignFilter{
			Search: strings.TrimSpace(c.Query("search")),
			Status: models.CampaignStatus(c.DefaultQuery("status", string(models.CampaignActive))),
		}
		if category := c.Query("category"); category != "" && category != "all" {
			filter.Category = category
		}
		page := pageRequest(c, campaignsPageSize)

		ctx, cancel := requestContext(c)
		defer cancel()

		campaigns, total, err := cfg.Store.ListCampaigns(ctx, filter, page)
		if err != nil {
			respondError(c, err)
			return
		}

		// --- Resolve NGO names in one round trip ---
		ids := make([]primitive.ObjectID, 0, len(campaigns))
		for _, cp := range campaigns {
			ids = append(ids, cp.NGOID)
		}
		ngos, err := cfg.Store.FindNGOs(ctx, ids)
		if err != nil {
			respondError(c, err)
			return
		}

		now := cfg.Now()
		views := make([]models.CampaignView, 0, len(campaigns))
		for _, cp := range campaigns {
			var ngo *models.NGO
			if n, ok := ngos[cp.NGOID]; ok {
				ngo = &n
			}
			views = append(views, models.NewCampaignView(cp, ngo, now))
		}

		c.JSON(http.StatusOK, models.NewPage(views, total, page))
	}
}

// ---------------- GET ----------------
func GetCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, ok := loadCampaign(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updates, err := cfg.Store.ListCampaignUpdates(ctx, campaign.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		// --- ETag from the newest change to the campaign or its updates ---
		modified := campaign.UpdatedAt
		if len(updates) > 0 && updates[0].CreatedAt.After(modified) {
			modified = updates[0].CreatedAt
		}
		etag := utils.GenerateETag(campaign.ID, modified)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}

		recent, err := cfg.Donations.Recent(ctx, campaign.ID, services.RecentDonationsLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		view, err := campaignView(c, cfg, *campaign)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("ETag", etag)
		c.Header("Last-Modified", modified.UTC().Format(http.TimeFormat))
		c.JSON(http.StatusOK, models.CampaignDetail{
			CampaignView:    view,
			Updates:         updates,
			RecentDonations: recent,
		})
	}
}

// ---------------- CREATE ----------------
func CreateCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}
		ngo, err := id.RequireNGO()
		if err != nil {
			respondError(c, err)
			return
		}

		var input campaignInput
		if !bindJSON(c, &input) {
			return
		}

		// --- Validate ---
		for _, f := range []struct{ name, value string }{
			{"title", input.Title},
			{"description", input.Description},
			{"category", input.Category},
		} {
			if strings.TrimSpace(f.value) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": f.name + " is required"})
				return
			}
		}
		if input.GoalAmount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "goalAmount is required"})
			return
		}
		goal, ok := parseGoal(input.GoalAmount)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "goalAmount must be a number greater than 0"})
			return
		}
		if !validTitle(input.Title) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must be at most 200 characters"})
			return
		}
		if !models.ValidCategory(input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}

		now := cfg.Now()
		end := now.Add(models.DefaultCampaignDuration)
		if input.EndDate != nil {
			end = input.EndDate.UTC()
		}
		campaign := models.Campaign{
			NGOID:           ngo.ID,
			Title:           strings.TrimSpace(input.Title),
			Description:     input.Description,
			LongDescription: input.LongDescription,
			Category:        input.Category,
			GoalAmount:      goal,
			ImageURL:        input.ImageURL,
			Location:        input.Location,
			Status:          models.CampaignActive,
			StartDate:       now,
			EndDate:         &end,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := cfg.Store.CreateCampaign(ctx, &campaign); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Campaign created successfully",
			"campaign": models.NewCampaignView(campaign, ngo, now),
		})
	}
}

// ---------------- UPDATE ----------------
func UpdateCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, ok := ownedCampaign(c, cfg)
		if !ok {
			return
		}

		var input campaignInput
		if !bindJSON(c, &input) {
			return
		}

		// --- Apply non-empty fields ---
		if title := strings.TrimSpace(input.Title); title != "" {
			if !validTitle(title) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "title must be at most 200 characters"})
				return
			}
			campaign.Title = title
		}
		if input.Category != "" {
			if !models.ValidCategory(input.Category) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			campaign.Category = input.Category
		}
		if input.GoalAmount != nil {
			goal, ok := parseGoal(input.GoalAmount)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "goalAmount must be a number greater than 0"})
				return
			}
			campaign.GoalAmount = goal
		}
		if input.Status != "" {
			status := models.CampaignStatus(input.Status)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			campaign.Status = status
		}
		setIfNotEmpty(&campaign.Description, input.Description)
		setIfNotEmpty(&campaign.LongDescription, input.LongDescription)
		setIfNotEmpty(&campaign.ImageURL, input.ImageURL)
		setIfNotEmpty(&campaign.Location, input.Location)
		if input.EndDate != nil {
			end := input.EndDate.UTC()
			campaign.EndDate = &end
		}
		campaign.UpdatedAt = cfg.Now()

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := cfg.Store.UpdateCampaign(ctx, campaign); err != nil {
			respondError(c, err)
			return
		}
		// raised_amount may have moved since the read
		if fresh, err := cfg.Store.FindCampaign(ctx, campaign.ID); err == nil {
			campaign = fresh
		}

		view, err := campaignView(c, cfg, *campaign)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Campaign updated successfully",
			"campaign": view,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, ok := ownedCampaign(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		err := cfg.Store.DeleteCampaign(ctx, campaign.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
	}
}

// ---------------- UPDATES ----------------
func AddCampaignUpdate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, ok := ownedCampaign(c, cfg)
		if !ok {
			return
		}

		var input struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if !bindJSON(c, &input) {
			return
		}
		if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
			return
		}

		update := models.CampaignUpdate{
			CampaignID: campaign.ID,
			Title:      strings.TrimSpace(input.Title),
			Content:    input.Content,
			CreatedAt:  cfg.Now(),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := cfg.Store.CreateCampaignUpdate(ctx, &update); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Update added successfully",
			"update":  update,
		})
	}
}

// ---------------- IMAGE ----------------
func UploadCampaignImage(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, ok := ownedCampaign(c, cfg)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		defer file.Close()

		url, err := cfg.Uploader.Upload(c.Request.Context(), file, "campaigns")
		if errors.Is(err, utils.ErrUploadsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "image upload failed",
				"file":  fileHeader.Filename,
			})
			return
		}

		old := campaign.ImageURL
		campaign.ImageURL = url
		campaign.UpdatedAt = cfg.Now()

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := cfg.Store.UpdateCampaign(ctx, campaign); err != nil {
			respondError(c, err)
			return
		}

		// --- Old image cleanup is best effort ---
		if old != "" && old != url {
			if err := cfg.Uploader.Delete(ctx, old); err != nil {
				log.Printf("delete old campaign image %s: %v", old, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Image uploaded successfully",
			"image_url": url,
		})
	}
}

// ---------------- CATEGORIES ----------------
func GetCategories(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.CampaignCategories)
	}
}

// ---------------- STATS ----------------
func GetCampaignStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := cfg.Store.CampaignTotals(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		// Not capped: over-funded campaigns can push this past 100.
		if stats.TotalGoal > 0 {
			stats.OverallProgress = stats.TotalRaised / stats.TotalGoal * 100
		}
		c.JSON(http.StatusOK, stats)
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

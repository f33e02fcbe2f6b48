package cli

import (
	"context"
	"fmt"
	"time"

	config "github.com/phillip/edubridge-go/config"
	models "github.com/phillip/edubridge-go/models"
	services "github.com/phillip/edubridge-go/services"
	utils "github.com/phillip/edubridge-go/utils"
)

const seedPassword = "password123"

type seedCampaign struct {
	title, description, category, imageURL, location string
	goal, raised                                     float64
}

var demoCampaigns = []seedCampaign{
	{"Computer Science Scholarship Program", "Supporting 50 underprivileged students to pursue computer science education with full scholarships and mentorship.", "scholarship", "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=400&h=250&fit=crop", "Mumbai, India", 50000, 35000},
	{"Rural School Infrastructure", "Building modern classrooms and providing educational resources for rural schools in Karnataka.", "infrastructure", "https://images.unsplash.com/photo-1523050854058-8df90110c9e1?w=400&h=250&fit=crop", "Karnataka, India", 75000, 45000},
	{"Women in STEM Mentorship", "Connecting female students with industry professionals for career guidance and skill development.", "mentorship", "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=400&h=250&fit=crop", "Bangalore, India", 25000, 18000},
	{"Digital Literacy for Seniors", "Teaching digital skills to senior citizens to help them stay connected in the modern world.", "education", "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=400&h=250&fit=crop", "Delhi, India", 30000, 22000},
	{"Art & Music Education", "Providing art and music education to children in government schools.", "education", "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=400&h=250&fit=crop", "Chennai, India", 40000, 28000},
	{"Sports Equipment Drive", "Providing sports equipment and training to schools in rural areas.", "infrastructure", "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=400&h=250&fit=crop", "Punjab, India", 35000, 15000},
}

type SeedCmd struct {
	Keep bool `help:"keep existing documents instead of clearing first."`
}

// Run loads demo data through the same services the API uses, so raised
// totals come from real donations and mentor slots from a real acceptance.
func (cmd *SeedCmd) Run(env *Environment, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !cmd.Keep {
		if err := cfg.Store.Clear(ctx); err != nil {
			return fmt.Errorf("clear database: %w", err)
		}
		fmt.Fprintln(env.Stdout, "Cleared existing data")
	}

	// Demo accounts use example.com addresses; never mail them.
	accounts := services.NewAccounts(cfg.Store, cfg.Tokens, utils.NopMailer{}, cfg.Now)
	ledger := services.NewDonationLedger(cfg.Store, utils.NopMailer{}, cfg.Now)

	register := func(r services.Registration) (*services.Identity, error) {
		sess, err := accounts.Register(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", r.Email, err)
		}
		return services.ResolveIdentity(ctx, cfg.Store, sess.User.ID.Hex())
	}

	// --- Accounts ---
	if _, err := register(services.Registration{
		Email: "admin@edubridge.com", Password: "admin123",
		FirstName: "Admin", LastName: "User", Role: models.RoleAdmin, Phone: "+91-9876543211",
	}); err != nil {
		return err
	}
	ngo, err := register(services.Registration{
		Email: "techfoundation@example.com", Password: seedPassword,
		FirstName: "Tech", LastName: "Foundation", Role: models.RoleNGO, Phone: "+91-9876543210",
		Organization: "Tech Education Foundation",
		Description:  "Empowering students through technology education",
		Address:      "123 Tech Street", City: "Mumbai", State: "Maharashtra", Country: "India",
	})
	if err != nil {
		return err
	}
	years := 8
	mentor, err := register(services.Registration{
		Email: "mentor@example.com", Password: seedPassword,
		FirstName: "John", LastName: "Mentor", Role: models.RoleMentor, Phone: "+91-9876543212",
		Organization: "Tech Corp", Position: "Senior Software Engineer",
		Expertise: "Python, JavaScript, React", ExperienceYears: &years,
		Bio:         "Passionate about mentoring students in technology",
		LinkedinURL: "https://linkedin.com/in/johnmentor", GithubURL: "https://github.com/johnmentor",
	})
	if err != nil {
		return err
	}
	age := 17
	student, err := register(services.Registration{
		Email: "student@example.com", Password: seedPassword,
		FirstName: "Alice", LastName: "Student", Role: models.RoleStudent, Phone: "+91-9876543213",
		School: "Delhi Public School", Grade: "12", Age: &age,
		Interests: "Programming, Mathematics, Science", Goals: "To become a software engineer",
		Background: "Middle class family", FamilyIncome: "medium", Location: "Delhi, India",
	})
	if err != nil {
		return err
	}
	donor, err := register(services.Registration{
		Email: "donor@example.com", Password: seedPassword,
		FirstName: "Dana", LastName: "Donor", Role: models.RoleDonor,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, "Created admin, NGO, mentor, student and donor accounts")

	// --- Campaigns and donations ---
	now := cfg.Now()
	end := now.Add(models.DefaultCampaignDuration)
	for _, sc := range demoCampaigns {
		campaign := models.Campaign{
			NGOID:       ngo.Profile.NGO.ID,
			Title:       sc.title,
			Description: sc.description,
			Category:    sc.category,
			GoalAmount:  sc.goal,
			ImageURL:    sc.imageURL,
			Location:    sc.location,
			Status:      models.CampaignActive,
			StartDate:   now,
			EndDate:     &end,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := cfg.Store.CreateCampaign(ctx, &campaign); err != nil {
			return fmt.Errorf("create campaign %q: %w", sc.title, err)
		}
		if _, err := ledger.Record(ctx, donor.User.ID, services.DonationRequest{
			CampaignID:    campaign.ID.Hex(),
			Amount:        sc.raised,
			PaymentMethod: models.DefaultPaymentMethod,
			Message:       "Keep up the great work!",
		}); err != nil {
			return fmt.Errorf("donate to %q: %w", sc.title, err)
		}
	}
	fmt.Fprintf(env.Stdout, "Created %d campaigns with donations\n", len(demoCampaigns))

	// --- Mentorship ---
	m := mentor.Profile.Mentor
	m.MaxStudents = 3
	m.UpdatedAt = now
	if err := cfg.Store.UpdateMentor(ctx, m); err != nil {
		return fmt.Errorf("update mentor: %w", err)
	}
	request, err := cfg.Mentorships.Request(ctx, student, services.MentorshipRequest{
		MentorID: m.ID.Hex(),
		Goals:    "Land a first software engineering internship",
	})
	if err != nil {
		return fmt.Errorf("request mentorship: %w", err)
	}
	if _, err := cfg.Mentorships.Respond(ctx, mentor, request.ID.Hex(), services.Accept); err != nil {
		return fmt.Errorf("accept mentorship: %w", err)
	}
	fmt.Fprintln(env.Stdout, "Created an active mentorship")

	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Sample data seeded. Credentials:")
	fmt.Fprintln(env.Stdout, "  admin@edubridge.com / admin123")
	for _, email := range []string{"techfoundation@example.com", "mentor@example.com", "student@example.com", "donor@example.com"} {
		fmt.Fprintf(env.Stdout, "  %s / %s\n", email, seedPassword)
	}
	return nil
}

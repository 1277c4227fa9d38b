package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketera/internal/blog"
	"ticketera/internal/events"
	"ticketera/internal/notifications"
	"ticketera/internal/seats"
	"ticketera/internal/settings"
	"ticketera/internal/shared/config"
	"ticketera/internal/shared/database"
	"ticketera/internal/transport"
	"ticketera/internal/users"
	"ticketera/internal/venues"
	"ticketera/pkg/cache"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db  *database.DB
	now time.Time
}

func main() {
	_ = godotenv.Load()
	fmt.Println("🌱 Starting Ticketera Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, now: time.Now().UTC().Truncate(time.Hour)}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates every application table, dependents first
func (s *Seeder) CleanDatabase() error {
	models := database.Models()

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for i := len(models) - 1; i >= 0; i-- {
			stmt := &gorm.Statement{DB: tx}
			if err := stmt.Parse(models[i]); err != nil {
				return fmt.Errorf("failed to resolve table for %T: %w", models[i], err)
			}
			table := stmt.Schema.Table
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	venueIDs, err := s.SeedVenues()
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	if err := s.SeedEvents(venueIDs); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedTransport(); err != nil {
		return fmt.Errorf("failed to seed transport: %w", err)
	}

	if err := s.SeedBlog(); err != nil {
		return fmt.Errorf("failed to seed blog: %w", err)
	}

	if err := s.SeedNotifications(); err != nil {
		return fmt.Errorf("failed to seed notifications: %w", err)
	}

	// Clear Redis first so stale cached settings do not mask the fresh rows
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	fmt.Println("  ⚙️  Seeding settings...")
	settingService := settings.NewService(settings.NewRepository(s.db.PostgreSQL), cache.NewService(s.db.Redis))
	if err := settingService.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}

// SeedUsers creates an admin, an operator and two customers sharing one password
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		name  string
		email string
		phone string
		roles []users.Role
	}{
		{"Admin Ticketera", "admin@ticketera.pe", "+51 900 000 001", []users.Role{users.RoleAdmin, users.RoleUser}},
		{"Operador Cruz del Sur", "operador@ticketera.pe", "+51 900 000 002", []users.Role{users.RoleOperator, users.RoleUser}},
		{"Lucía Ramos", "lucia@example.com", "+51 987 654 321", []users.Role{users.RoleUser}},
		{"Diego Paredes", "diego@example.com", "+51 912 345 678", []users.Role{users.RoleUser}},
	}

	for _, u := range usersData {
		profile := users.Profile{
			ID:           uuid.New(),
			FullName:     u.name,
			Email:        u.email,
			Phone:        u.phone,
			PasswordHash: string(hashedPassword),
		}
		for _, role := range u.roles {
			profile.Roles = append(profile.Roles, users.UserRole{ID: uuid.New(), Role: role})
		}

		if err := s.db.PostgreSQL.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		fmt.Printf("    ✅ Created user: %s %v\n", profile.Email, u.roles)
	}

	return nil
}

// SeedVenues creates venues with seating maps and returns their IDs keyed by a short name
func (s *Seeder) SeedVenues() (map[string]uuid.UUID, error) {
	fmt.Println("  🏟️  Seeding venues...")

	venuesData := []struct {
		key  string
		item venues.Venue
	}{
		{"nacional", venues.Venue{
			Name:    "Estadio Nacional",
			Address: "Av. José Díaz s/n",
			City:    "Lima",
			SeatingMap: venues.SeatingMap{Sections: []venues.SeatingSection{
				{Name: "VIP", Category: venues.CategoryVIP, Rows: 2, SeatsPerRow: 10, Price: decimal.NewFromInt(450)},
				{Name: "Preferencial", Category: venues.CategoryPreferencial, Rows: 3, SeatsPerRow: 12, Price: decimal.NewFromInt(250)},
				{Name: "General", Category: venues.CategoryGeneral, Rows: 4, SeatsPerRow: 15, Price: decimal.NewFromInt(120)},
			}},
		}},
		{"municipal", venues.Venue{
			Name:    "Teatro Municipal",
			Address: "Jr. Ica 377",
			City:    "Lima",
			SeatingMap: venues.SeatingMap{Sections: []venues.SeatingSection{
				{Name: "Platea", Category: venues.CategoryPlatea, Rows: 4, SeatsPerRow: 10, Price: decimal.NewFromInt(180)},
				{Name: "Mezzanine", Category: venues.CategoryGeneral, Rows: 2, SeatsPerRow: 10, Price: decimal.NewFromInt(90)},
			}},
		}},
		{"cusco", venues.Venue{
			Name:    "Centro de Convenciones Cusco",
			Address: "Av. El Sol 103",
			City:    "Cusco",
			SeatingMap: venues.SeatingMap{Sections: []venues.SeatingSection{
				{Name: "General", Category: venues.CategoryGeneral, Rows: 5, SeatsPerRow: 10, Price: decimal.NewFromInt(80)},
			}},
		}},
	}

	ids := make(map[string]uuid.UUID, len(venuesData))
	for _, v := range venuesData {
		venue := v.item
		venue.ID = uuid.New()
		for _, section := range venue.SeatingMap.Sections {
			venue.Capacity += section.Rows * section.SeatsPerRow
		}

		if err := s.db.PostgreSQL.Create(&venue).Error; err != nil {
			return nil, fmt.Errorf("failed to create venue %s: %w", venue.Name, err)
		}
		ids[v.key] = venue.ID
		fmt.Printf("    ✅ Created venue: %s (%d seats)\n", venue.Name, venue.Capacity)
	}

	return ids, nil
}

// SeedEvents creates events and generates their seat inventory from the venue map
func (s *Seeder) SeedEvents(venueIDs map[string]uuid.UUID) error {
	fmt.Println("  🎤 Seeding events...")

	eventsData := []struct {
		title    string
		artist   string
		category string
		venue    string
		inDays   int
		hours    int
		rating   float64
		featured bool
	}{
		{"Gira Latinoamericana 2026", "Los Andes Eléctricos", "concierto", "nacional", 14, 4, 4.8, true},
		{"Noche de Jazz en el Centro", "Cuarteto Miraflores", "concierto", "municipal", 21, 3, 4.5, false},
		{"Hamlet", "Compañía Nacional de Teatro", "teatro", "municipal", 30, 3, 4.6, true},
		{"Festival Inti Raymi Urbano", "Varios artistas", "festival", "cusco", 45, 8, 4.2, false},
		{"Stand-up: Lima de Noche", "Carla Pinto", "comedia", "municipal", 7, 2, 4.1, false},
	}

	seatRepo := seats.NewRepository(s.db.PostgreSQL)
	ctx := context.Background()

	for _, e := range eventsData {
		var venue venues.Venue
		if err := s.db.PostgreSQL.First(&venue, "id = ?", venueIDs[e.venue]).Error; err != nil {
			return fmt.Errorf("failed to load venue %s: %w", e.venue, err)
		}

		minPrice, maxPrice := priceRange(venue.SeatingMap)
		start := s.now.AddDate(0, 0, e.inDays).Add(20 * time.Hour)
		event := events.Event{
			ID:          uuid.New(),
			Title:       e.title,
			Description: fmt.Sprintf("%s en %s", e.artist, venue.Name),
			VenueID:     venue.ID,
			Artist:      e.artist,
			Category:    e.category,
			StartDate:   start,
			EndDate:     start.Add(time.Duration(e.hours) * time.Hour),
			MinPrice:    minPrice,
			MaxPrice:    maxPrice,
			Status:      events.StatusActive,
			Rating:      e.rating,
			Featured:    e.featured,
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", e.title, err)
		}

		inventory := seats.BuildSeats(event.ID, venue.SeatingMap)
		if err := seatRepo.CreateSeats(ctx, inventory); err != nil {
			return fmt.Errorf("failed to create seats for %s: %w", e.title, err)
		}
		fmt.Printf("    ✅ Created event: %s (%d seats)\n", event.Title, len(inventory))
	}

	return nil
}

// SeedTransport creates companies and their scheduled routes
func (s *Seeder) SeedTransport() error {
	fmt.Println("  🚌 Seeding transport...")

	companies := []transport.Company{
		{ID: uuid.New(), Name: "Cruz del Sur", Rating: 4.6, ContactEmail: "ventas@cruzdelsur.example", Website: "https://cruzdelsur.example"},
		{ID: uuid.New(), Name: "PeruRail", Rating: 4.8, ContactEmail: "reservas@perurail.example", Website: "https://perurail.example"},
		{ID: uuid.New(), Name: "Oltursa", Rating: 4.3, ContactEmail: "contacto@oltursa.example"},
	}
	for i := range companies {
		if err := s.db.PostgreSQL.Create(&companies[i]).Error; err != nil {
			return fmt.Errorf("failed to create company %s: %w", companies[i].Name, err)
		}
		fmt.Printf("    ✅ Created company: %s\n", companies[i].Name)
	}

	routesData := []struct {
		company     int
		origin      string
		destination string
		vehicle     transport.VehicleType
		class       string
		inDays      int
		departHour  int
		minutes     int
		minPrice    int64
		maxPrice    int64
		seats       int
		amenities   []string
	}{
		{0, "Lima", "Arequipa", transport.VehicleBus, "cama", 3, 21, 960, 90, 160, 40, []string{"wifi", "ac", "meals", "usb"}},
		{0, "Lima", "Trujillo", transport.VehicleBus, "semi-cama", 2, 22, 540, 60, 110, 44, []string{"wifi", "ac"}},
		{1, "Cusco", "Aguas Calientes", transport.VehicleTrain, "vistadome", 5, 7, 210, 280, 450, 60, []string{"meals", "panoramic"}},
		{2, "Lima", "Piura", transport.VehicleBus, "ejecutivo", 4, 19, 900, 80, 140, 40, []string{"ac", "usb"}},
	}

	for _, r := range routesData {
		departure := s.now.AddDate(0, 0, r.inDays).Truncate(24 * time.Hour).Add(time.Duration(r.departHour) * time.Hour)
		route := transport.Route{
			ID:              uuid.New(),
			CompanyID:       companies[r.company].ID,
			Origin:          r.origin,
			Destination:     r.destination,
			VehicleType:     r.vehicle,
			VehicleClass:    r.class,
			DepartureTime:   departure,
			ArrivalTime:     departure.Add(time.Duration(r.minutes) * time.Minute),
			DurationMinutes: r.minutes,
			MinPrice:        decimal.NewFromInt(r.minPrice),
			MaxPrice:        decimal.NewFromInt(r.maxPrice),
			TotalSeats:      r.seats,
			AvailableSeats:  r.seats,
			Amenities:       r.amenities,
			Status:          transport.RouteActive,
			Rating:          companies[r.company].Rating,
		}

		if err := s.db.PostgreSQL.Create(&route).Error; err != nil {
			return fmt.Errorf("failed to create route %s-%s: %w", r.origin, r.destination, err)
		}
		if err := s.db.PostgreSQL.Model(&transport.Company{}).
			Where("id = ?", route.CompanyID).
			UpdateColumn("total_routes", gorm.Expr("total_routes + 1")).Error; err != nil {
			return fmt.Errorf("failed to update company route count: %w", err)
		}
		fmt.Printf("    ✅ Created route: %s - %s (%s)\n", route.Origin, route.Destination, route.VehicleType)
	}

	return nil
}

// SeedBlog creates published and draft posts
func (s *Seeder) SeedBlog() error {
	fmt.Println("  📝 Seeding blog posts...")

	postsData := []struct {
		title    string
		excerpt  string
		category string
		tags     []string
		status   blog.Status
		featured bool
		daysAgo  int
	}{
		{"Guía para viajar de Lima a Arequipa", "Todo lo que necesitas saber antes de subir al bus.", "viajes", []string{"bus", "arequipa"}, blog.StatusPublished, true, 3},
		{"Los conciertos más esperados del año", "Una selección de shows imperdibles.", "eventos", []string{"conciertos", "lima"}, blog.StatusPublished, false, 10},
		{"Cómo elegir el mejor asiento", "Consejos para comprar entradas numeradas.", "consejos", []string{"asientos"}, blog.StatusPublished, false, 20},
		{"Novedades de temporada", "Borrador con la programación de verano.", "eventos", []string{"temporada"}, blog.StatusDraft, false, 0},
	}

	for _, p := range postsData {
		post := blog.BlogPost{
			ID:       uuid.New(),
			Title:    p.title,
			Slug:     blog.GenerateSlug(p.title),
			Excerpt:  p.excerpt,
			Content:  p.excerpt + "\n\nContenido completo del artículo.",
			Author:   "Equipo Ticketera",
			Category: p.category,
			Tags:     p.tags,
			Status:   p.status,
			Featured: p.featured,
		}
		if p.status == blog.StatusPublished {
			date := s.now.AddDate(0, 0, -p.daysAgo)
			post.Date = &date
		}

		if err := s.db.PostgreSQL.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to create post %s: %w", p.title, err)
		}
		fmt.Printf("    ✅ Created post: %s (%s)\n", post.Slug, post.Status)
	}

	return nil
}

// SeedNotifications creates a sent announcement and a scheduled promotion
func (s *Seeder) SeedNotifications() error {
	fmt.Println("  🔔 Seeding notifications...")

	sentAt := s.now.AddDate(0, 0, -1)
	scheduledAt := s.now.AddDate(0, 0, 2)

	items := []notifications.Notification{
		{
			ID:              uuid.New(),
			Title:           "Bienvenido a Ticketera",
			Message:         "Ya puedes comprar entradas y pasajes desde un solo lugar.",
			Type:            notifications.TypeInfo,
			Channel:         notifications.ChannelInApp,
			TargetAudience:  notifications.AudienceAll,
			Status:          notifications.StatusSent,
			SentAt:          &sentAt,
			TotalRecipients: 4,
		},
		{
			ID:             uuid.New(),
			Title:          "Preventa exclusiva",
			Message:        "Accede a la preventa de la Gira Latinoamericana 2026.",
			Type:           notifications.TypePromotion,
			Channel:        notifications.ChannelEmail,
			TargetAudience: notifications.AudienceUsers,
			Status:         notifications.StatusScheduled,
			ScheduledAt:    &scheduledAt,
		},
	}

	for i := range items {
		if err := s.db.PostgreSQL.Create(&items[i]).Error; err != nil {
			return fmt.Errorf("failed to create notification %s: %w", items[i].Title, err)
		}
		fmt.Printf("    ✅ Created notification: %s (%s)\n", items[i].Title, items[i].Status)
	}

	return nil
}

func priceRange(m venues.SeatingMap) (decimal.Decimal, decimal.Decimal) {
	if len(m.Sections) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi := m.Sections[0].Price, m.Sections[0].Price
	for _, section := range m.Sections[1:] {
		lo = decimal.Min(lo, section.Price)
		hi = decimal.Max(hi, section.Price)
	}
	return lo, hi
}

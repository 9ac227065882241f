package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/store"
)

// SampleProductCount is the number of products inserted into an empty table.
const SampleProductCount = 50

const (
	minEANCode = 1_000_000_000_000
	maxEANCode = 9_999_999_999_999
)

var sampleManufacturers = [SampleProductCount]string{
	"EcoLuxe", "GlowTech", "ZenFit", "CrispSound", "AquaTunes",
	"GloBeauty", "SwiftFly", "CocoBlend", "FlexiSport", "NovaGuard",
	"SwiftSlice", "UrbanTrek", "SolarGlow", "DreamEase", "HydraGreen",
	"BlissAroma", "TechScribe", "ZenSecure", "SculptFlex", "CasaNova",
	"RapidCharge", "LunaGlow", "EverFlame", "ChromaView", "FrostGuard",
	"GourmetGrind", "FuzionPro", "NovaLuxe", "SonicSmile", "VerdeVue",
	"TempoTune", "VitaBlend", "GlideSwift", "SolarFlare", "PulseWave",
	"HydroCrisp", "CuddleNest", "PawsomeTrail", "BlazeBite", "SonicGlow",
	"InnovaRide", "AeroShift", "LumaSync", "TerraTrek", "TangleFix",
	"SleekNova", "GloWave", "NatureZen", "NovaPulse", "CosmicView",
}

var sampleNames = [SampleProductCount]string{
	"EcoChill Air Cooler", "LuxeGlow Facial Serum", "Zenith Fitness Tracker",
	"CrispTech Wireless Earbuds", "AquaWave Waterproof Speaker", "GloSoft Makeup Brushes Set",
	"SwiftJet Drone Pro", "CocoBrew Cold Brew Maker", "FlexiFit Resistance Bands",
	"NovaTech Smart Doorbell", "SwiftSlice Food Chopper", "UrbanHike Backpack",
	"SolarBloom Garden Lights", "DreamScape Sleep Mask", "HydraPod Plant Waterer",
	"BlissfulBreeze Aromatherapy Diffuser", "TechScribe Stylus Pen", "ZenGuard Home Security System",
	"SculptFlex Yoga Mat", "CasaNova Smart Thermostat", "RapidCharge Power Bank",
	"LunaSync Moon Lamp", "EverSpark Fire Starter", "ChromaView VR Headset",
	"FrostGuard Car Windshield Cover", "GourmetGrind Coffee Grinder", "Fuzion Pro Gaming Mouse",
	"NovaLuxe Luggage Set", "SonicRise Electric Toothbrush", "VerdeVue Blue Light Glasses",
	"TempoTune Metronome", "VitaBite Blender", "GlideSwift Electric Scooter",
	"SolarFlare Portable Solar Charger", "PulseWave Massage Gun", "HydroCrisp Plant Grow Lights",
	"CuddleNest Pregnancy Pillow", "PawsomeTrail Pet Carrier", "BlazeBite BBQ Grill",
	"SonicGlow Facial Cleanser", "InnovaRide Electric Skateboard", "AeroShift Bike Helmet",
	"LumaSync Smart Light Bulbs", "TerraTrek Camping Tent", "TangleFix Hair Detangler",
	"SleekNova Hair Straightener", "GloWave Self-Tanning Mousse", "NatureZen Essential Oils Set",
	"NovaPulse Fitness Tracker", "CosmicView Telescope",
}

var sampleCategories = [SampleProductCount]string{
	"Home Appliances", "Skincare", "Fitness", "Audio", "Outdoor",
	"Beauty", "Drones", "Kitchen Appliances", "Fitness Accessories", "Home Security",
	"Kitchen Gadgets", "Outdoor Gear", "Garden Accessories", "Sleep Accessories", "Gardening",
	"Aromatherapy", "Office Supplies", "Home Security", "Yoga & Fitness", "Home Appliances",
	"Power Banks", "Home Decor", "Camping Essentials", "Fire Starters", "Virtual Reality",
	"Automotive Accessories", "Kitchen Appliances", "Gaming Accessories", "Travel Gear", "Oral Care",
	"Eyewear", "Musical Instruments", "Kitchen Appliances", "Electric Scooters", "Solar Chargers",
	"Massage Therapy", "Gardening", "Pregnancy & Maternity", "Pet Accessories", "Outdoor Cooking",
	"Skincare", "Outdoor Recreation", "Sports Gear", "Bike Accessories", "Smart Lighting",
	"Camping Gear", "Hair Care", "Hair Care", "Self-Tanning", "Aromatherapy",
}

// PasswordHasher hashes the bootstrap user's password.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// SeedResult reports what a Seed call inserted.
type SeedResult struct {
	// UserCreated is true when the bootstrap user was inserted.
	UserCreated bool
	// Token is the bootstrap user's API token; empty unless UserCreated.
	Token string
	// GeneratedPassword holds the password when none was configured.
	GeneratedPassword string
	// ProductsCreated is the number of sample products inserted.
	ProductsCreated int
}

// Seeder populates an empty database with the bootstrap user and the
// sample catalog. Users and products are checked independently so a
// database with users but no products still gets the catalog.
type Seeder struct {
	db       *sql.DB
	users    *UserStore
	products *ProductStore
	hasher   PasswordHasher
	cfg      config.AuthConfig
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewSeeder creates a Seeder. rng may be nil, in which case a randomly
// seeded generator is used.
func NewSeeder(
	db *sql.DB,
	dialect Dialect,
	cfg config.AuthConfig,
	hasher PasswordHasher,
	rng *rand.Rand,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Seeder{
		db:       db,
		users:    NewUserStore(db, dialect, logger),
		products: NewProductStore(db, dialect, logger),
		hasher:   hasher,
		cfg:      cfg,
		rng:      rng,
		logger:   logger.With(slog.String("component", "seeder")),
	}
}

// Seed inserts the bootstrap user when the users table is empty and the
// sample products when the products table is empty. Running it again on a
// populated database changes nothing.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result SeedResult

	userCount, err := s.users.Count(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		if err := s.seedUser(ctx, &result); err != nil {
			return result, err
		}
	} else {
		log.Debug("users present, skipping bootstrap user", slog.Int("count", userCount))
	}

	productCount, err := s.products.Count(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count products: %w", err)
	}
	if productCount == 0 {
		if err := s.seedProducts(ctx); err != nil {
			return result, err
		}
		result.ProductsCreated = SampleProductCount
	} else {
		log.Debug("products present, skipping sample catalog", slog.Int("count", productCount))
	}

	return result, nil
}

func (s *Seeder) seedUser(ctx context.Context, result *SeedResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	password := s.cfg.BootstrapPassword
	if password == "" {
		password = uuid.NewString()
		result.GeneratedPassword = password
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	token := s.cfg.BootstrapToken
	if token == "" {
		token = uuid.NewString()
	}

	user, err := domain.NewUser(s.cfg.BootstrapUsername, hash, token)
	if err != nil {
		return fmt.Errorf("invalid bootstrap user: %w", err)
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	result.UserCreated = true
	result.Token = token

	// The token is only ever printed here; operators need it to call the API.
	log.Info("created bootstrap API user",
		slog.String("username", user.Username),
		slog.String("token", token),
		slog.Bool("password_generated", result.GeneratedPassword != ""))
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	batch := SampleProducts(s.rng)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.products.WithTx(tx).CreateBatch(ctx, batch)
	})
	if err != nil {
		return fmt.Errorf("failed to insert sample products: %w", err)
	}

	log.Info("inserted sample products", slog.Int("count", len(batch)))
	return nil
}

// SampleProducts builds the sample catalog with random EAN codes and prices
// drawn from rng.
func SampleProducts(rng *rand.Rand) []domain.ProductChanges {
	products := make([]domain.ProductChanges, 0, SampleProductCount)
	for i := range SampleProductCount {
		ean := minEANCode + rng.Int64N(maxEANCode-minEANCode+1)
		// whole part 1..550, cents 10..99
		price := decimal.NewFromInt(1 + rng.Int64N(550)).
			Add(decimal.New(10+rng.Int64N(90), -2))

		products = append(products, domain.NewProductChanges(
			strconv.FormatInt(ean, 10),
			sampleNames[i],
			sampleManufacturers[i],
			sampleCategories[i],
			price,
		))
	}
	return products
}

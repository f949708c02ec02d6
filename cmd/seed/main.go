package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/resenahub/resenahub/internal/auth"
	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/config"
	"github.com/resenahub/resenahub/pkg/logging"
)

type categorySeed struct {
	name          string
	slug          string
	subcategories []subcategorySeed
}

type subcategorySeed struct {
	name string
	slug string
}

type userSeed struct {
	username    string
	email       string
	displayName string
	password    string
}

type postSeed struct {
	title       string
	slug        string
	author      string
	category    string
	subcategory string
	movieTitle  string
	director    string
	releaseYear int64
	rating      int
	content     string
	excerpt     string
}

var categories = []categorySeed{
	{"Películas", "peliculas", []subcategorySeed{
		{"Acción", "accion"}, {"Comedia", "comedia"}, {"Drama", "drama"},
		{"Terror", "terror"}, {"Ciencia Ficción", "ciencia-ficcion"},
		{"Romance", "romance"}, {"Thriller", "thriller"}, {"Aventura", "aventura"},
		{"Fantasía", "fantasia"}, {"Animación", "animacion"},
	}},
	{"Anime", "anime", []subcategorySeed{
		{"Shonen", "shonen"}, {"Shojo", "shojo"}, {"Seinen", "seinen"},
		{"Josei", "josei"}, {"Mecha", "mecha"}, {"Isekai", "isekai"},
		{"Slice of Life", "slice-of-life"}, {"Sports", "sports"},
		{"Supernatural", "supernatural"},
	}},
	{"Series", "series", []subcategorySeed{
		{"Drama", "drama"}, {"Comedia", "comedia"},
		{"Ciencia Ficción", "ciencia-ficcion"}, {"Crime", "crime"},
		{"Documentales", "documentales"}, {"Reality", "reality"},
		{"Miniseries", "miniseries"},
	}},
	{"Documentales", "documentales", []subcategorySeed{
		{"Naturaleza", "naturaleza"}, {"Historia", "historia"},
		{"Ciencia", "ciencia"}, {"Biografías", "biografias"},
		{"Crimen Real", "crimen-real"}, {"Deportes", "deportes"},
		{"Tecnología", "tecnologia"},
	}},
}

var users = []userSeed{
	{"demo", "demo@example.com", "Usuario Demo", "demo123"},
	{"cinefilo_experto", "cinefilo@example.com", "María González", "demo123"},
	{"anime_lover", "anime@example.com", "Carlos Ruiz", "demo123"},
	{"critico_series", "series@example.com", "Ana Martínez", "demo123"},
}

var posts = []postSeed{
	{
		title: "El Viaje de Chihiro: una obra maestra atemporal", slug: "el-viaje-de-chihiro",
		author: "anime_lover", category: "anime", subcategory: "shonen",
		movieTitle: "El Viaje de Chihiro", director: "Hayao Miyazaki", releaseYear: 2001, rating: 5,
		content: "Studio Ghibli en su máxima expresión. La historia de Chihiro en el mundo de los espíritus combina una animación impecable con una narrativa que funciona tanto para niños como para adultos.",
		excerpt: "Studio Ghibli en su máxima expresión.",
	},
	{
		title: "El Padrino sigue siendo el estándar del cine", slug: "el-padrino",
		author: "cinefilo_experto", category: "peliculas", subcategory: "drama",
		movieTitle: "El Padrino", director: "Francis Ford Coppola", releaseYear: 1972, rating: 5,
		content: "Medio siglo después, la saga de los Corleone sigue marcando el listón. Cada plano, cada silencio de Brando, cada decisión de montaje es una lección de cine.",
		excerpt: "Medio siglo después sigue marcando el listón.",
	},
	{
		title: "Breaking Bad y la transformación perfecta", slug: "breaking-bad",
		author: "critico_series", category: "series", subcategory: "drama",
		movieTitle: "Breaking Bad", director: "Vince Gilligan", releaseYear: 2008, rating: 5,
		content: "Pocas series sostienen un arco de personaje tan completo como el de Walter White. De profesor gris a señor del imperio, sin un solo paso en falso en cinco temporadas.",
		excerpt: "El arco de personaje más completo de la televisión.",
	},
}

func main() {
	sample := flag.Bool("sample", false, "also create demo users and sample reviews")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting ResenaHub seeder")

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := models.Migrate(database.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	repo := db.NewRepository(database.DB)

	if err := seedCategories(ctx, repo, logger); err != nil {
		logger.Fatal("Failed to seed categories", zap.Error(err))
	}

	if *sample {
		if err := seedSampleData(ctx, repo, logger); err != nil {
			logger.Fatal("Failed to seed sample data", zap.Error(err))
		}
	}

	logger.Info("Seeding complete")
}

// seedCategories creates the category taxonomy. Existing rows are left
// alone so the command can run repeatedly.
func seedCategories(ctx context.Context, repo *db.Repository, logger *zap.Logger) error {
	categoryRepo := db.NewCategoryRepository(repo)

	for _, seed := range categories {
		category, err := categoryRepo.GetBySlug(ctx, seed.slug)
		if err != nil {
			return err
		}
		if category == nil {
			category = &models.Category{Name: seed.name, Slug: seed.slug}
			if err := categoryRepo.Create(ctx, category); err != nil {
				return err
			}
			logger.Info("category created", zap.String("slug", seed.slug))
		}

		for _, subSeed := range seed.subcategories {
			sub, err := categoryRepo.GetSubcategory(ctx, category.ID, subSeed.slug)
			if err != nil {
				return err
			}
			if sub != nil {
				continue
			}
			sub = &models.Subcategory{
				CategoryID: category.ID,
				Name:       subSeed.name,
				Slug:       subSeed.slug,
			}
			if err := categoryRepo.CreateSubcategory(ctx, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedSampleData creates demo users and a few reviews for local
// development
func seedSampleData(ctx context.Context, repo *db.Repository, logger *zap.Logger) error {
	userRepo := db.NewUserRepository(repo)
	byUsername := make(map[string]*models.User, len(users))

	for _, seed := range users {
		user, err := userRepo.GetByUsername(ctx, seed.username)
		if err != nil {
			return err
		}
		if user == nil {
			hash, err := auth.HashPassword(seed.password)
			if err != nil {
				return err
			}
			user = &models.User{
				Username:     seed.username,
				Email:        seed.email,
				PasswordHash: hash,
				DisplayName:  sql.NullString{String: seed.displayName, Valid: true},
				CreatedAt:    time.Now().UTC(),
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return err
			}
			logger.Info("user created", zap.String("username", seed.username))
		}
		byUsername[seed.username] = user
	}

	categoryRepo := db.NewCategoryRepository(repo)
	postRepo := db.NewPostRepository(repo)

	for _, seed := range posts {
		taken, err := postRepo.SlugExists(ctx, seed.slug)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		author, ok := byUsername[seed.author]
		if !ok {
			return fmt.Errorf("seed post %q references unknown author %q", seed.slug, seed.author)
		}
		category, err := categoryRepo.GetBySlug(ctx, seed.category)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("seed post %q references unknown category %q", seed.slug, seed.category)
		}

		post := &models.Post{
			Title:       seed.title,
			Slug:        seed.slug,
			AuthorID:    author.ID,
			CategoryID:  category.ID,
			Content:     seed.content,
			Excerpt:     seed.excerpt,
			MovieTitle:  seed.movieTitle,
			Director:    seed.director,
			ReleaseYear: sql.NullInt64{Int64: seed.releaseYear, Valid: true},
			Rating:      seed.rating,
			Published:   true,
		}
		if seed.subcategory != "" {
			sub, err := categoryRepo.GetSubcategory(ctx, category.ID, seed.subcategory)
			if err != nil {
				return err
			}
			if sub != nil {
				post.SubcategoryID = sql.NullInt64{Int64: sub.ID, Valid: true}
			}
		}

		if err := postRepo.Create(ctx, post); err != nil {
			return err
		}
		logger.Info("post created", zap.String("slug", seed.slug))
	}
	return nil
}

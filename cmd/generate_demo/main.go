// Command generate_demo creates a demo database with a small catalog of public domain books,
// two accounts and a populated reading list.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/readinglist"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	demoPassword            = "demo-password"
)

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     *dbPath,
		LogLevel: "warn",
	})
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	created := make(map[string]uint)
	for _, in := range getPublicDomainBooks() {
		book, err := bookRepo.CreateBook(in)
		if err != nil {
			log.Printf("Failed to save book %s: %v", in.Title, err)
			continue
		}
		created[book.Title] = book.ID
		log.Printf("Saved: %s by %v", book.Title, in.Authors)
	}

	authService, err := auth.NewService(users.NewRepository(db.DB), config.Auth{
		Mode:       config.AuthModeJWT,
		JWTSecret:  "demo",
		BcryptCost: 10,
	})
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}

	if _, err := authService.CreateUser("admin@example.com", demoPassword, "Admin", entities.UserRoleAdmin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	reader, err := authService.CreateUser("reader@example.com", demoPassword, "Reader", entities.UserRoleUser)
	if err != nil {
		log.Fatalf("Failed to create reader: %v", err)
	}

	addReadingList(readinglist.NewRepository(db.DB), reader.ID, created)

	log.Printf("Demo database generated successfully! Log in as reader@example.com / %s", demoPassword)
}

func addReadingList(repo *readinglist.Repository, userID uint, bookIDs map[string]uint) {
	entries := []struct {
		title  string
		status entities.ReadingStatus
		pages  *int
		rating *float64
		note   *string
	}{
		{"Meditations", entities.ReadingStatusCompleted, nil, ptr(5.0), ptr("Re-read every winter.")},
		{"Pride and Prejudice", entities.ReadingStatusCompleted, nil, ptr(4.0), nil},
		{"Moby-Dick", entities.ReadingStatusReading, ptr(212), nil, nil},
		{"The Odyssey", entities.ReadingStatusWant, nil, nil, nil},
		{"Frankenstein", entities.ReadingStatusDropped, ptr(40), ptr(2.5), ptr("Maybe later.")},
	}

	for _, e := range entries {
		bookID, ok := bookIDs[e.title]
		if !ok {
			continue
		}
		_, err := repo.AddEntry(userID, readinglist.AddEntryInput{
			BookID:        bookID,
			Status:        string(e.status),
			ProgressPages: e.pages,
			UserRating:    e.rating,
			Note:          e.note,
		})
		if err != nil {
			log.Printf("Failed to add %s to reading list: %v", e.title, err)
		}
	}
}

func getPublicDomainBooks() []books.BookInput {
	return []books.BookInput{
		{
			Title:         "Meditations",
			ISBN:          "0812968255",
			ISBN13:        ptr("9780812968255"),
			Description:   ptr("Private notes of the Roman emperor on Stoic philosophy."),
			Format:        ptr("Paperback"),
			Pages:         ptr(254),
			AverageRating: ptr(4.27),
			TotalRatings:  ptr(310000),
			ReviewsCount:  ptr(9800),
			Authors:       []string{"Marcus Aurelius"},
			Genres:        []string{"Philosophy", "Classics"},
		},
		{
			Title:         "Pride and Prejudice",
			ISBN:          "0141439513",
			ISBN13:        ptr("9780141439518"),
			Format:        ptr("Paperback"),
			Pages:         ptr(480),
			AverageRating: ptr(4.29),
			TotalRatings:  ptr(4200000),
			Authors:       []string{"Jane Austen"},
			Genres:        []string{"Classics", "Romance", "Fiction"},
		},
		{
			Title:         "Emma",
			ISBN:          "0141439580",
			Pages:         ptr(474),
			AverageRating: ptr(4.03),
			Authors:       []string{"Jane Austen"},
			Genres:        []string{"Classics", "Romance", "Fiction"},
		},
		{
			Title:         "Moby-Dick",
			ISBN:          "0142437247",
			Pages:         ptr(720),
			AverageRating: ptr(3.53),
			Authors:       []string{"Herman Melville"},
			Genres:        []string{"Classics", "Adventure", "Fiction"},
		},
		{
			Title:         "The Odyssey",
			ISBN:          "0140268863",
			Pages:         ptr(541),
			AverageRating: ptr(3.87),
			Authors:       []string{"Homer", "Robert Fagles"},
			Genres:        []string{"Classics", "Poetry", "Fantasy"},
		},
		{
			Title:         "Frankenstein",
			ISBN:          "0486282112",
			Pages:         ptr(166),
			AverageRating: ptr(3.89),
			Authors:       []string{"Mary Shelley"},
			Genres:        []string{"Classics", "Horror", "Science Fiction"},
		},
		{
			Title:         "The Adventures of Sherlock Holmes",
			ISBN:          "0439574285",
			Pages:         ptr(336),
			AverageRating: ptr(4.31),
			Authors:       []string{"Arthur Conan Doyle"},
			Genres:        []string{"Classics", "Mystery", "Fiction"},
		},
		{
			Title:         "The Time Machine",
			ISBN:          "0451528557",
			Pages:         ptr(118),
			AverageRating: ptr(3.89),
			Authors:       []string{"H.G. Wells"},
			Genres:        []string{"Science Fiction", "Classics"},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

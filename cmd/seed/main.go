package main

import (
	"log"
	"time"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/validator"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("fieldbook.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM teams")
	db.Exec("DELETE FROM fields")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	admin := domain.User{
		Email: "admin@fieldbook.local",
		Role:  domain.RoleAdmin,
		Name:  "Admin",
	}
	owner := domain.User{
		Email: "owner@fieldbook.local",
		Role:  domain.RoleFieldOwner,
		Name:  "Arena Owner",
	}
	captain := domain.User{
		Email: "captain@fieldbook.local",
		Role:  domain.RolePlayer,
		Name:  "Team Captain",
	}

	seedUsers := []struct {
		u    *domain.User
		pass string
	}{
		{&admin, "admin123"},
		{&owner, "owner123"},
		{&captain, "captain123"},
	}
	for _, su := range seedUsers {
		u := su.u
		hash, err := bcrypt.GenerateFromPassword([]byte(su.pass), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("bcrypt failed:", err)
		}
		u.PasswordHash = string(hash)

		if errs := validator.Validate(u); errs != nil {
			log.Fatalf("invalid seed user %s: %v", u.Email, errs)
		}
		if err := db.Create(u).Error; err != nil {
			log.Fatal("create user failed:", err)
		}
	}

	log.Println("Creating fields...")

	fields := []domain.Field{
		{
			OwnerID:     owner.ID,
			Name:        "Central Arena",
			Address:     "12 Abay Ave",
			City:        "Almaty",
			Surface:     domain.SurfaceArtificial,
			RatePerHour: 50,
			IsActive:    true,
		},
		{
			OwnerID:     owner.ID,
			Name:        "Riverside Pitch",
			Address:     "3 Esil St",
			City:        "Astana",
			Surface:     domain.SurfaceGrass,
			RatePerHour: 35,
			IsActive:    true,
		},
	}
	for i := range fields {
		if errs := validator.Validate(&fields[i]); errs != nil {
			log.Fatalf("invalid seed field %s: %v", fields[i].Name, errs)
		}
		if err := db.Create(&fields[i]).Error; err != nil {
			log.Fatal("create field failed:", err)
		}
	}

	log.Println("Creating teams...")

	team := domain.Team{
		Name:      "Night Owls",
		CaptainID: captain.ID,
		City:      "Almaty",
	}
	if err := db.Create(&team).Error; err != nil {
		log.Fatal("create team failed:", err)
	}

	log.Println("Creating a sample booking...")

	start := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	booking := domain.Booking{
		FieldID:       fields[0].ID,
		RequestedBy:   captain.ID,
		TeamID:        &team.ID,
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		TotalPrice:    2 * fields[0].RatePerHour,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
	}
	if err := db.Create(&booking).Error; err != nil {
		log.Fatal("create booking failed:", err)
	}

	log.Println("Seed complete.")
}

package utils

import (
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"velorent/src/db"
	"velorent/src/models"
	"velorent/src/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	d, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening test database", err)
	}
	err = d.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Booking{},
		&models.Request{},
		&models.Policy{},
		&models.Payment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)
	return d
}

func seedBooking(t *testing.T, d *gorm.DB, startInDays int) (*models.User, *models.Booking) {
	t.Helper()
	user := models.User{Name: "Test User", Email: fmt.Sprintf("%s@example.com", strings.ReplaceAll(t.Name(), "/", "_")), Role: "customer"}
	if err := d.Create(&user).Error; err != nil {
		t.Fatalf("could not create user: %s", err.Error())
	}
	company := models.Company{CompanyName: "Roadster Rentals", Status: "active"}
	if err := d.Create(&company).Error; err != nil {
		t.Fatalf("could not create company: %s", err.Error())
	}
	start := time.Now().AddDate(0, 0, startInDays)
	booking := models.Booking{
		UserID:      user.ID,
		UserName:    user.Name,
		VehicleName: "Toyota HiAce",
		CompanyID:   &company.ID,
		CompanyName: company.CompanyName,
		ServiceType: "self-drive",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		RentTime:    "08:00",
		Destination: "Tagaytay",
		BookingDate: time.Now(),
		Status:      types.BOOKING_PENDING,
	}
	if err := d.Create(&booking).Error; err != nil {
		t.Fatalf("could not create booking: %s", err.Error())
	}
	return &user, &booking
}

func countNotifications(t *testing.T, d *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := d.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("could not count notifications: %s", err.Error())
	}
	return count
}

package boot

import (
	"log"

	"velorent/src/db"
	"velorent/src/models"
)

func InitDb() {
	d := db.GetDb()
	if err := d.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Booking{},
		&models.Request{},
		&models.Policy{},
		&models.Payment{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
}

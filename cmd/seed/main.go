package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/prideatlas/prideatlas-backend/config"
	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Expected column layout of the import sheet. The first row is a header.
const (
	colName = iota
	colCategory
	colDescription
	colAddress
	colCity
	colRegion
	colPhone
	colEmail
	colWebsite
	colAccessibility // semicolon-separated flags
	colLatitude
	colLongitude
	minColumns = colAccessibility + 1
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	businesses, err := readBusinessesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total businesses to import: %d\n", len(businesses))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := businessRepo.BulkCreate(businesses, batchSize); err != nil {
		log.Fatal("Failed to bulk create businesses:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total businesses imported: %d\n", len(businesses))
}

func readBusinessesFromXLSX(filePath string) ([]model.Business, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var businesses []model.Business
	seen := make(map[string]bool)
	skippedCount := 0
	invalidCoordCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < minColumns {
			skippedCount++
			continue
		}

		cell := func(idx int) string {
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := cell(colName)
		category := cell(colCategory)
		city := cell(colCity)
		address := cell(colAddress)

		if name == "" || category == "" || city == "" || address == "" {
			skippedCount++
			continue
		}

		if !isValidBusinessName(name) {
			skippedCount++
			continue
		}

		// Coordinates are optional; a row with only one of the pair, or an
		// unparseable value, is imported without them.
		var latitude, longitude *float64
		latStr, lngStr := cell(colLatitude), cell(colLongitude)
		if latStr != "" || lngStr != "" {
			lat, errLat := strconv.ParseFloat(latStr, 64)
			lng, errLng := strconv.ParseFloat(lngStr, 64)
			if errLat != nil || errLng != nil || lat == 0 || lng == 0 {
				invalidCoordCount++
			} else {
				latitude = &lat
				longitude = &lng
			}
		}

		key := fmt.Sprintf("%s|%s|%s", name, city, address)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		business := model.Business{
			Name:          name,
			Category:      category,
			Description:   cell(colDescription),
			Address:       address,
			City:          city,
			Region:        cell(colRegion),
			Phone:         cell(colPhone),
			Email:         cell(colEmail),
			Website:       cell(colWebsite),
			Accessibility: parseAccessibility(cell(colAccessibility)),
			Latitude:      latitude,
			Longitude:     longitude,
			OwnerID:       nil, // unclaimed until a verified owner takes over
			Status:        model.StatusApproved,
		}

		businesses = append(businesses, business)

		if len(businesses)%500 == 0 {
			fmt.Printf("Processed %d businesses...\n", len(businesses))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid businesses: %d\n", len(businesses))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid coordinates: %d\n", invalidCoordCount)

	return businesses, nil
}

var knownAccessibilityFlags = map[string]bool{
	model.AccessWheelchair:      true,
	model.AccessRestroom:        true,
	model.AccessGenderNeutralWC: true,
	model.AccessASLFriendly:     true,
	model.AccessSensoryFriendly: true,
	model.AccessServiceAnimals:  true,
}

// parseAccessibility splits a semicolon-separated cell and keeps only the
// flags the API recognizes.
func parseAccessibility(raw string) model.StringArray {
	if raw == "" {
		return nil
	}

	var flags model.StringArray
	for _, part := range strings.Split(raw, ";") {
		flag := strings.ToLower(strings.TrimSpace(part))
		if knownAccessibilityFlags[flag] {
			flags = append(flags, flag)
		}
	}
	return flags
}

// isValidBusinessName filters out junk rows from bulk directory exports.
func isValidBusinessName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}

	numOnlyReg := regexp.MustCompile(`^[0-9]+$`)
	if numOnlyReg.MatchString(name) {
		return false
	}

	specialOnlyReg := regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	if specialOnlyReg.MatchString(name) {
		return false
	}

	return true
}

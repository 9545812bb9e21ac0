package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/rsharma/bazario-backend/config"
	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/app/repository"
	"github.com/rsharma/bazario-backend/internal/db"
	"github.com/rsharma/bazario-backend/pkg/util"
)

// Imports a product catalog from an XLSX workbook.
//
// Expected sheets:
//
//	Categories: Name | Description
//	Products:   Category | Name | Description | Price | Stock | Image URL
//
// Imported products are owned by a bootstrap "Bazario Official" seller,
// created on first run.

const sellerEmail = "catalog@bazario.example.com"

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

	userRepo := repository.NewUserRepository(db.GetDB())
	sellerRepo := repository.NewSellerRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	categories, err := readCategories(f)
	if err != nil {
		log.Fatal("Failed to read categories:", err)
	}
	products, err := readProducts(f)
	if err != nil {
		log.Fatal("Failed to read products:", err)
	}

	fmt.Printf("Categories to import: %d\n", len(categories))
	fmt.Printf("Products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	seller, err := ensureCatalogSeller(userRepo, sellerRepo)
	if err != nil {
		log.Fatal("Failed to prepare catalog seller:", err)
	}

	categoryIDs := make(map[string]uint)
	for i := range categories {
		existing, err := categoryRepo.FindBySlug(util.Slugify(categories[i].Name))
		if err == nil {
			categoryIDs[strings.ToLower(categories[i].Name)] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatal("Failed to look up category:", err)
		}
		if err := categoryRepo.Create(&categories[i]); err != nil {
			log.Fatal("Failed to create category:", err)
		}
		categoryIDs[strings.ToLower(categories[i].Name)] = categories[i].ID
	}

	var importable []model.Product
	skipped := 0
	for _, p := range products {
		categoryID, ok := categoryIDs[strings.ToLower(p.categoryName)]
		if !ok {
			skipped++
			continue
		}
		importable = append(importable, model.Product{
			SellerID:    seller.ID,
			CategoryID:  categoryID,
			Name:        p.name,
			Description: p.description,
			Price:       p.price,
			Stock:       p.stock,
			Images:      p.images,
			IsActive:    true,
		})
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(importable, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Categories imported: %d\n", len(categoryIDs))
	fmt.Printf("Products imported: %d (skipped: %d)\n", len(importable), skipped)
}

type productRow struct {
	categoryName string
	name         string
	description  string
	price        decimal.Decimal
	stock        int
	images       model.StringArray
}

func readCategories(f *excelize.File) ([]model.Category, error) {
	rows, err := f.GetRows("Categories")
	if err != nil {
		return nil, fmt.Errorf("failed to read Categories sheet: %w", err)
	}

	var categories []model.Category
	seen := make(map[string]bool)
	for i, row := range rows {
		if i == 0 || len(row) < 1 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		category := model.Category{Name: name}
		if len(row) > 1 {
			category.Description = strings.TrimSpace(row[1])
		}
		categories = append(categories, category)
	}

	return categories, nil
}

func readProducts(f *excelize.File) ([]productRow, error) {
	rows, err := f.GetRows("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to read Products sheet: %w", err)
	}

	var products []productRow
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			skipped++
			continue
		}

		categoryName := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		description := strings.TrimSpace(row[2])
		priceStr := strings.TrimSpace(row[3])

		if categoryName == "" || name == "" || priceStr == "" {
			skipped++
			continue
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			skipped++
			continue
		}

		stock := 0
		if len(row) > 4 {
			if n, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil && n >= 0 {
				stock = n
			}
		}

		var images model.StringArray
		if len(row) > 5 {
			if url := strings.TrimSpace(row[5]); url != "" {
				images = model.StringArray{url}
			}
		}

		products = append(products, productRow{
			categoryName: categoryName,
			name:         name,
			description:  description,
			price:        price,
			stock:        stock,
			images:       images,
		})
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d malformed product rows\n", skipped)
	}
	return products, nil
}

// ensureCatalogSeller finds or creates the approved seller that owns
// imported catalog products.
func ensureCatalogSeller(userRepo repository.UserRepository, sellerRepo repository.SellerRepository) (*model.Seller, error) {
	user, err := userRepo.FindByEmail(sellerEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		email := sellerEmail
		user = &model.User{
			FullName: "Bazario Official",
			Email:    &email,
			Roles:    model.RoleSet{model.RoleCustomer, model.RoleSeller},
			Status:   model.UserStatusActive,
		}
		if err := userRepo.Create(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	seller, err := sellerRepo.FindByUserID(user.ID)
	if err == nil {
		return seller, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	seller = &model.Seller{
		UserID:        user.ID,
		StoreName:     "Bazario Official",
		Description:   "First-party catalog imports",
		BusinessEmail: sellerEmail,
		Status:        model.SellerStatusApproved,
		ReviewedAt:    &now,
	}
	if err := sellerRepo.Create(seller); err != nil {
		return nil, err
	}
	return seller, nil
}

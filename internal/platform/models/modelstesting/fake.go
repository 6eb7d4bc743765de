package modelstesting

import (
	"math/rand"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FakeProduct returns valid models.Product with fake data and random number of fake variants and images.
func FakeProduct(ops ...func(p *models.Product)) models.Product {
	product := models.Product{
		StoreID:     faker.UUIDHyphenated(),
		Provider:    models.ProviderPrintify,
		ExternalID:  faker.UUIDDigit(),
		Title:       faker.Sentence(),
		Description: faker.Paragraph(),
		Variants:    fakeVariants(),
		Images:      fakeImages(),
		Metadata: map[string]any{
			"blueprint_id": float64(rand.Intn(1000)),
			"tags":         []any{faker.Word(), faker.Word()},
		},
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeVariant returns valid models.Variant with fake data.
func FakeVariant(ops ...func(v *models.Variant)) models.Variant {
	variant := models.Variant{
		ExternalID: faker.UUIDDigit(),
		SKU:        faker.Word() + "-" + faker.Word(),
		Title:      faker.Word(),
		Price:      lo.ToPtr(decimal.New(rand.Int63n(10000)+1, -2)),
		Currency:   "USD",
		Available:  true,
		Options: map[string]string{
			"size":  faker.Word(),
			"color": faker.Word(),
		},
		Metadata: map[string]any{
			"cost": float64(rand.Intn(1000)),
		},
	}

	for _, op := range ops {
		op(&variant)
	}

	return variant
}

// FakeImage returns valid models.Image with fake data.
func FakeImage(ops ...func(i *models.Image)) models.Image {
	image := models.Image{
		URL:      "https://images.example.com/" + faker.Word() + ".png",
		Position: rand.Intn(10),
	}

	for _, op := range ops {
		op(&image)
	}

	return image
}

// FakeTask returns pending models.SyncTask with fake data.
func FakeTask(ops ...func(t *models.SyncTask)) models.SyncTask {
	createdAt := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	task := models.SyncTask{
		Type:      models.TaskUpdate,
		Status:    models.TaskPending,
		Entity:    models.EntityProduct,
		EntityID:  faker.UUIDDigit(),
		Provider:  models.ProviderPrintify,
		Stores:    []string{faker.UUIDHyphenated()},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	for _, op := range ops {
		op(&task)
	}

	return task
}

// Fetched wraps products into successfully fetched records.
func Fetched(products ...models.Product) []models.FetchedProduct {
	return lo.Map(products, func(p models.Product, _ int) models.FetchedProduct {
		return models.FetchedProduct{
			ExternalID: p.ExternalID,
			Product:    lo.ToPtr(p),
		}
	})
}

func fakeVariants() []models.Variant {
	variantsLen := rand.Intn(4) + 1
	variants := make([]models.Variant, 0, variantsLen)
	for range variantsLen {
		variants = append(variants, FakeVariant())
	}

	return variants
}

func fakeImages() []models.Image {
	imagesLen := rand.Intn(3)
	images := make([]models.Image, 0, imagesLen)
	for range imagesLen {
		images = append(images, FakeImage())
	}

	return images
}

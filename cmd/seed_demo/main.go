// Command seed_demo creates a demo database with a sample account, profile
// and a handful of recipes.
// Usage: go run cmd/seed_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/recipeshare/server/internal/database"
	"github.com/recipeshare/server/internal/provider/embedded"
	"github.com/recipeshare/server/internal/store"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"

	demoEmail    = "demo@recipeshare.local"
	demoPassword = "demo-password-1"
	demoUsername = "demo_cook"
)

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB: %v", err)
	}

	prov, err := embedded.New(db.DB, sqlDB, embedded.Config{})
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	ctx := context.Background()

	session, err := prov.SignUp(ctx, demoEmail, demoPassword)
	if err != nil {
		log.Fatalf("Failed to create demo account: %v", err)
	}
	log.Printf("Created account %s (%s)", demoEmail, session.Identity.ID)

	recordStore := store.New(prov)

	fullName := "Demo Cook"
	if _, err := recordStore.CreateProfile(ctx, &session.Identity, demoUsername, &fullName); err != nil {
		log.Fatalf("Failed to create demo profile: %v", err)
	}
	log.Printf("Created profile %s", demoUsername)

	for _, input := range demoRecipes() {
		recipe, err := recordStore.CreateRecipe(ctx, &session.Identity, input)
		if err != nil {
			log.Printf("Failed to create recipe %q: %v", input.Title, err)
			continue
		}
		log.Printf("Created recipe: %s (%s)", recipe.Title, recipe.ID)
	}

	log.Println("Demo database generated successfully!")
	log.Printf("Sign in with %s / %s", demoEmail, demoPassword)
}

func demoRecipes() []store.RecipeInput {
	desc := func(s string) *string { return &s }
	mins := func(n int) *int { return &n }

	return []store.RecipeInput{
		{
			Title:        "Classic Margherita Pizza",
			Description:  desc("Thin-crust pizza with tomato, mozzarella and basil."),
			Ingredients:  "Pizza dough\nSan Marzano tomatoes\nFresh mozzarella\nBasil\nOlive oil\nSalt",
			Instructions: "Stretch the dough.\nSpread crushed tomatoes.\nTop with torn mozzarella.\nBake at maximum heat until blistered.\nFinish with basil and olive oil.",
			CookingTime:  mins(25),
			Difficulty:   desc("easy"),
			Category:     "dinner",
		},
		{
			Title:        "Overnight Oats",
			Description:  desc("No-cook breakfast ready when you wake up."),
			Ingredients:  "Rolled oats\nMilk\nGreek yogurt\nChia seeds\nHoney\nBerries",
			Instructions: "Combine oats, milk, yogurt and chia seeds in a jar.\nSweeten with honey.\nRefrigerate overnight.\nTop with berries before serving.",
			CookingTime:  mins(5),
			Difficulty:   desc("easy"),
			Category:     "breakfast",
		},
		{
			Title:        "Beef Rendang",
			Description:  desc("Slow-cooked Indonesian dry curry."),
			Ingredients:  "Beef chuck\nCoconut milk\nLemongrass\nGalangal\nShallots\nGarlic\nChillies\nKaffir lime leaves",
			Instructions: "Blend the aromatics into a paste.\nSimmer beef in coconut milk with the paste.\nCook low and slow until the liquid reduces to a coating.\nFry in the rendered fat until dark and fragrant.",
			CookingTime:  mins(240),
			Difficulty:   desc("hard"),
			Category:     "dinner",
		},
		{
			Title:        "Lemon Drizzle Cake",
			Ingredients:  "Butter\nCaster sugar\nEggs\nSelf-raising flour\nLemons\nGranulated sugar",
			Instructions: "Cream butter and sugar.\nBeat in eggs and zest.\nFold in flour.\nBake until golden.\nPour lemon syrup over the warm cake.",
			CookingTime:  mins(60),
			Difficulty:   desc("medium"),
			Category:     "dessert",
		},
	}
}

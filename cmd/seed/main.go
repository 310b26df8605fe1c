package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"quotebuilder/internal/config"
	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/domain/repositories"
	"quotebuilder/internal/repository/postgres"
	"quotebuilder/internal/service"
	"quotebuilder/internal/storage"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop the documents table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed documents")
	clearData := flag.Bool("clear-data", false, "Delete all documents (keep schema)")
	localOnly := flag.Bool("local", false, "Seed the local store instead of the remote database")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()

	var store repositories.DocumentStore
	// commit is set when the inserts run inside one remote transaction
	var commit func(context.Context) error
	if *localOnly {
		log.Printf("🌱 Seeding local store at %s", cfg.LocalStorePath)
		localStore, err := storage.OpenLocal(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to open local store: %v", err)
		}
		defer localStore.Close()
		store = localStore
	} else {
		if cfg.DatabaseURL == "" {
			log.Fatalf("No database URL configured (set SUPABASE_DB_URL or use --local)")
		}
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)

		if *dropTables {
			log.Println("🗑️  Dropping documents table...")
			if err := postgres.DropSchema(ctx, pool, tables); err != nil {
				log.Fatalf("Failed to drop tables: %v", err)
			}
		}

		log.Println("📋 Ensuring database schema is up to date...")
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to run schema: %v", err)
		}
		log.Println("✅ Schema ready")

		if *schemaOnly {
			return
		}

		if *clearData {
			n, err := postgres.ClearDocuments(ctx, pool, tables)
			if err != nil {
				log.Fatalf("Failed to clear data: %v", err)
			}
			log.Printf("✅ Cleared %d documents", n)
			return
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			log.Fatalf("Failed to begin transaction: %v", err)
		}
		defer tx.Rollback(ctx) // no-op once committed
		store = postgres.NewDocumentRepositoryWithExecutor(tx, tables, logger)
		commit = tx.Commit
	}

	docService := service.NewDocumentService(store, logger)

	documents := seedDocuments(time.Now())
	for i, doc := range documents {
		rec, err := docService.Save(ctx, doc)
		if err != nil {
			if commit != nil {
				log.Printf("❌ Failed to save %s, rolling back: %v", doc.ID, err)
				return
			}
			log.Printf("❌ Failed to save %s: %v", doc.ID, err)
			continue
		}
		log.Printf("✅ Saved document %d/%d: %s (%s, %s)", i+1, len(documents), rec.ID, rec.Type, rec.Client.Name)
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			log.Fatalf("Failed to commit seed data: %v", err)
		}
	}

	log.Println("🎉 Seeding complete!")
}

// seedDocuments returns one sample of each document type
func seedDocuments(now time.Time) []*models.Document {
	proposal := models.NewDocument(models.NewDocumentID(now), now)
	proposal.Client = models.Client{
		Name:             "Padaria Pão Dourado",
		ResponsibleParty: "Marina Costa",
		Email:            "marina@paodourado.com.br",
		TaxID:            "12.345.678/0001-90",
		Address:          "Rua das Flores, 120 - Curitiba/PR",
	}
	proposal.Project.Description = "Loja virtual com **pedidos online** e retirada no balcão."
	proposal.Project.Deliverables = []models.Deliverable{
		{
			Title: "Catálogo de produtos",
			Kind:  models.DeliverableFeature,
			Subitems: []models.Subitem{
				{Text: "Cadastro de produtos com _fotos_", Kind: models.SubitemFunctional},
				{Text: "Tempo de carregamento abaixo de 2s", Kind: models.SubitemNonFunctional},
			},
		},
		{
			Title:    "Checkout",
			Kind:     models.DeliverableFunctional,
			Subitems: []models.Subitem{{Text: "Pagamento via `PIX`", Kind: models.SubitemNote}},
		},
	}
	proposal.Items = []models.LineItem{
		{Description: "Desenvolvimento da loja", Quantity: 1, UnitPrice: decimal.RequireFromString("8500.00")},
		{Description: "Hospedagem (meses)", Quantity: 12, UnitPrice: decimal.RequireFromString("89.90")},
	}

	budgetAt := now.Add(-24 * time.Hour)
	budget := models.NewDocument(models.NewDocumentID(budgetAt), budgetAt)
	budget.Type = models.DocumentTypeBudget
	budget.Status = models.StatusPending
	budget.Client.Name = "Oficina Mecânica Norte"
	budget.Project.Deliverables[0].Title = "Sistema de agendamento"
	budget.Items[0] = models.LineItem{Description: "Agendamento online", Quantity: 1, UnitPrice: decimal.RequireFromString("3200.00")}

	contractAt := now.Add(-72 * time.Hour)
	contract := models.NewDocument(models.NewDocumentID(contractAt), contractAt)
	contract.Type = models.DocumentTypeContract
	contract.Status = models.StatusApproved
	contract.Client.Name = "Clínica Bem Estar"
	contract.Project.Deliverables[0] = models.Deliverable{Title: "Portal do paciente", Kind: models.DeliverableTask, Subitems: []models.Subitem{}}
	contract.Items[0] = models.LineItem{Description: "Portal e integração", Quantity: 1, UnitPrice: decimal.RequireFromString("15000.00")}
	contract.Terms.PaymentTerms = "3 parcelas mensais"

	return []*models.Document{proposal, budget, contract}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"faktoteka/internal/catalog"
	"faktoteka/internal/config"
	"faktoteka/internal/database"
	"faktoteka/internal/logging"
	"faktoteka/internal/models"
	"faktoteka/internal/presentation"
	"faktoteka/internal/services"
	"faktoteka/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	logging.Init()

	if err := godotenv.Load(); err == nil {
		log.Println("✅ .env file loaded")
	}

	cfg := config.Load()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	store := storage.New(db)
	datasetService := services.NewDatasetService(cfg.DatasetURL, cfg.DatasetFile, cfg.CacheTTL)
	factsService := services.NewFactsService(store, datasetService)
	themeService := services.NewThemeService(store)

	factsService.Initialize(context.Background())

	presenter := presentation.NewTerminalPresenter(os.Stdout, os.Stdin)
	input := bufio.NewScanner(os.Stdin)

	fmt.Println("==============================================")
	fmt.Println("🌍 Faktoteka — ciekawostki ze świata")
	fmt.Println("==============================================")
	fmt.Println("Type 'help' for commands.")
	fmt.Println()

	showView(presenter, factsService.CurrentView())

	for {
		fmt.Print("> ")
		if !input.Scan() {
			break
		}

		line := strings.TrimSpace(input.Text())
		if line == "" {
			continue
		}

		command, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch command {
		case "list":
			showView(presenter, factsService.CurrentView())

		case "filter":
			if arg == "" {
				arg = catalog.CategoryAll
			}
			showView(presenter, factsService.ApplyFilter(arg))

		case "search":
			showView(presenter, factsService.ApplySearch(arg))

		case "sort":
			showView(presenter, factsService.ApplySort(arg))

		case "add":
			addFact(input, presenter, factsService)

		case "delete":
			deleteFact(arg, presenter, factsService)

		case "clear":
			clearUserFacts(presenter, factsService)

		case "random":
			if fact, ok := factsService.RandomFact(); ok {
				presenter.Render([]models.Fact{fact})
			} else {
				presenter.RenderEmpty()
			}

		case "categories":
			for _, c := range factsService.Categories() {
				fmt.Println(" -", c)
			}

		case "theme":
			if arg == "" {
				fmt.Println("Motyw:", themeService.Theme())
			} else if err := themeService.SetTheme(arg); err != nil {
				presenter.ShowTransientMessage("Motyw musi być light albo dark", presentation.KindError)
			} else {
				presenter.ShowTransientMessage("Motyw zapisany: "+arg, presentation.KindSuccess)
			}

		case "help":
			printHelp()

		case "quit", "exit":
			fmt.Println("👋 Do zobaczenia!")
			return

		default:
			fmt.Printf("Unknown command %q — type 'help'\n", command)
		}
	}
}

func showView(p presentation.Presenter, view catalog.View) {
	if len(view.Facts) == 0 {
		p.RenderEmpty()
	} else {
		p.Render(view.Facts)
	}
	p.ReportCount(view.CountLabel)
}

// addFact prompts for the fact fields and submits them. On validation
// failure every violated rule is shown and nothing is persisted; the
// user can retry with corrected input.
func addFact(input *bufio.Scanner, p presentation.Presenter, facts *services.FactsService) {
	req := models.CreateFactRequest{
		Title:       promptField(input, "Tytuł"),
		Category:    promptField(input, "Kategoria"),
		Description: promptField(input, "Opis"),
		Source:      promptField(input, "Źródło (opcjonalnie)"),
	}

	fact, view, err := facts.AddFact(req)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			p.ShowTransientMessage(strings.Join(verr.Violations, ", "), presentation.KindError)
			return
		}
		p.ShowTransientMessage("Nie udało się zapisać ciekawostki: "+err.Error(), presentation.KindError)
		return
	}

	p.ShowTransientMessage("Ciekawostka dodana pomyślnie!", presentation.KindSuccess)
	fmt.Printf("Nowe ID: %d\n", fact.ID)
	p.ReportCount(view.CountLabel)
}

// deleteFact asks for confirmation first; declining performs no state
// change at all.
func deleteFact(arg string, p presentation.Presenter, facts *services.FactsService) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		p.ShowTransientMessage("Podaj poprawne ID, np. 'delete 7'", presentation.KindError)
		return
	}

	fact, ok := catalog.FindByID(facts.All(), id)
	if !ok {
		p.ShowTransientMessage("Nie znaleziono ciekawostki o tym ID", presentation.KindError)
		return
	}

	prompt := fmt.Sprintf("Czy na pewno chcesz usunąć ciekawostkę: %q? Tej operacji nie można cofnąć.", fact.Title)
	if !p.ConfirmDestructiveAction(prompt) {
		p.ShowTransientMessage("Anulowano", presentation.KindInfo)
		return
	}

	view, err := facts.DeleteFact(id)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotDeletable):
			p.ShowTransientMessage("Można usuwać tylko własne ciekawostki", presentation.KindError)
		case errors.Is(err, catalog.ErrNotFound):
			p.ShowTransientMessage("Nie znaleziono ciekawostki o tym ID", presentation.KindError)
		default:
			p.ShowTransientMessage("Nie udało się usunąć: "+err.Error(), presentation.KindError)
		}
		return
	}

	p.ShowTransientMessage("Ciekawostka usunięta", presentation.KindSuccess)
	p.ReportCount(view.CountLabel)
}

// clearUserFacts removes every user-authored fact after confirmation.
func clearUserFacts(p presentation.Presenter, facts *services.FactsService) {
	prompt := "Czy na pewno chcesz usunąć wszystkie własne ciekawostki? Tej operacji nie można cofnąć."
	if !p.ConfirmDestructiveAction(prompt) {
		p.ShowTransientMessage("Anulowano", presentation.KindInfo)
		return
	}

	removed, err := facts.ClearUserFacts()
	if err != nil {
		p.ShowTransientMessage("Nie udało się wyczyścić: "+err.Error(), presentation.KindError)
		return
	}

	p.ShowTransientMessage(fmt.Sprintf("Usunięto %d ciekawostek", removed), presentation.KindSuccess)
	p.ReportCount(facts.CurrentView().CountLabel)
}

func promptField(input *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !input.Scan() {
		return ""
	}
	return input.Text()
}

func printHelp() {
	fmt.Println(`Commands:
  list               show the current view
  filter <category>  filter by category ('all' clears the filter)
  search <text>      full-text search across title/description/category
  sort <key>         date-desc | date-asc | title-asc | title-desc
  add                add a new fact (interactive)
  delete <id>        delete one of your facts (asks for confirmation)
  clear              delete all of your facts (asks for confirmation)
  random             show a random fact from the current view
  categories         list known categories
  theme [light|dark] show or set the theme
  quit               exit`)
}

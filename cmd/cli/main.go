package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/logger"
	"github.com/ykaplan/cotenant/internal/risk"
	"github.com/ykaplan/cotenant/internal/split"
	"github.com/ykaplan/cotenant/internal/verify"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "score":
		runScore(log)
	case "split":
		runSplit(log)
	case "verify":
		runVerify(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Cotenant CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  score     Assess affordability risk for a set of applicants")
	fmt.Println("  split     Split a utility bill between two apartments")
	fmt.Println("  verify    Check an ID number against the restriction registry")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runScore(log zerolog.Logger) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	incomesFlag := fs.String("incomes", "", "comma-separated net monthly salaries")
	rent := fs.Float64("rent", 0, "monthly rent")
	propertyTax := fs.Float64("property-tax", 0, "monthly property tax (arnona)")
	livingCosts := fs.Float64("living-costs", 0, "monthly living costs")
	fs.Parse(os.Args[2:])

	if *incomesFlag == "" {
		log.Fatal().Msg("Error: --incomes is required")
	}

	var incomes []float64
	for _, part := range strings.Split(*incomesFlag, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			log.Fatal().Str("value", part).Msg("Invalid income value")
		}
		incomes = append(incomes, v)
	}

	costs := risk.HouseholdCosts{Rent: *rent, PropertyTax: *propertyTax, LivingCosts: *livingCosts}
	if err := costs.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid costs")
	}
	if err := risk.ValidateIncomes(incomes); err != nil {
		log.Fatal().Err(err).Msg("Invalid incomes")
	}

	a := risk.Score(incomes, costs)

	fmt.Printf("Total income:    %.2f\n", a.TotalIncome)
	fmt.Printf("Housing cost:    %.2f\n", a.HousingCost)
	fmt.Printf("Total expenses:  %.2f\n", a.TotalExpenses)
	if a.HasRatio {
		fmt.Printf("Expense ratio:   %.2f%%\n", a.ExpenseRatio*100)
	} else {
		fmt.Println("Expense ratio:   n/a")
	}
	fmt.Printf("Risk tier:       %s\n", a.Tier)
}

func runSplit(log zerolog.Logger) {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	current := fs.Float64("current", 0, "current meter reading")
	previous := fs.Float64("previous", 0, "previous meter reading")
	fixed := fs.Float64("fixed", 0, "fixed cost on the bill")
	usage := fs.Float64("usage", 0, "total usage cost on the bill")
	unitPrice := fs.Float64("unit-price", 0, "price per unit")
	vat := fs.Float64("vat", 0, "VAT amount on the bill")
	fs.Parse(os.Args[2:])

	result, err := split.Split(split.BillInput{
		CurrentReading:  *current,
		PreviousReading: *previous,
		FixedCost:       *fixed,
		TotalUsageCost:  *usage,
		UnitPrice:       *unitPrice,
		VAT:             *vat,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Split failed")
	}

	fmt.Printf("Consumption:  %.2f\n\n", result.Consumption)
	fmt.Printf("%-12s %10s %10s\n", "Component", "Apt 1", "Apt 2")
	fmt.Printf("%-12s %10.2f %10.2f\n", "Fixed", result.Apartment1.Fixed, result.Apartment2.Fixed)
	fmt.Printf("%-12s %10.2f %10.2f\n", "Usage", result.Apartment1.Usage, result.Apartment2.Usage)
	fmt.Printf("%-12s %10.2f %10.2f\n", "VAT", result.Apartment1.VAT, result.Apartment2.VAT)
	fmt.Printf("%-12s %10.2f %10.2f\n", "Total", result.Apartment1.Total, result.Apartment2.Total)
	fmt.Printf("\nBill total:   %.2f\n", result.BillTotal())
}

func runVerify(log zerolog.Logger) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	id := fs.String("id", "", "ID number to check")
	endpoint := fs.String("endpoint", "", "registry endpoint override (one %s verb)")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := verify.NewClient(*endpoint, log)
	result := client.Check(ctx, *id)

	fmt.Printf("Status: %s\n", result.Status)
	if result.Detail != "" {
		fmt.Printf("Detail: %s\n", result.Detail)
	}
}

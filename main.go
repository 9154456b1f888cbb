package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"strings"
	"syscall"

	"futuresOrderBot/config"
	"futuresOrderBot/internal/adapters/binanceclient"
	"futuresOrderBot/internal/adapters/logger"
	"futuresOrderBot/internal/app"
	"futuresOrderBot/internal/ports"
	"futuresOrderBot/internal/strategy"
	"futuresOrderBot/internal/validation"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		symbolFlag      = flag.String("symbol", "", "Trading pair (e.g. BTCUSDT)")
		sideFlag        = flag.String("side", "", "Order side: buy or sell")
		quantityFlag    = flag.String("quantity", "", "Order quantity")
		typeFlag        = flag.String("type", "", "Order type: "+strings.Join(strategy.SupportedTypes(), " or "))
		priceFlag       = flag.String("price", "", "Price (limit orders only)")
		interactiveFlag = flag.Bool("interactive", false, "Prompt for parameters interactively")
		yesFlag         = flag.Bool("yes", false, "Skip the confirmation prompt")
		skipBalanceFlag = flag.Bool("skip-balance-check", false, "Skip the pre-trade balance sufficiency check")
	)
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
		return 1
	}

	// 2. Initialize Logger
	appLogger, cleanup, err := buildLogger(cfg)
	if err != nil {
		log.Printf("FATAL: Failed to initialize logger: %v", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{
		"level":  cfg.LogLevel.String(),
		"format": string(cfg.LogFormat),
	})

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		return 1
	}

	// 4. Initialize Application Service
	service, err := app.NewService(cfg, appLogger, binanceClient)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize service")
		return 1
	}

	// 5. Collect order parameters (batch flags or interactive prompts)
	params := app.OrderParams{
		RawParams: validation.RawParams{
			Symbol:   *symbolFlag,
			Side:     *sideFlag,
			Quantity: *quantityFlag,
			Type:     *typeFlag,
			Price:    *priceFlag,
		},
		SkipBalanceCheck: *skipBalanceFlag,
	}
	if params.Symbol == "" {
		params.Symbol = cfg.DefaultSymbol
	}
	if *interactiveFlag || missingEssentials(params) {
		params = promptForParams(params)
	}

	// 6. Confirm before touching the exchange
	printSummary(params, cfg.IsTestnet)
	if !*yesFlag && !confirm() {
		fmt.Println("Order cancelled.")
		return 0
	}

	// 7. Connectivity preflight, then the order pipeline
	if err := service.Preflight(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to reach the exchange: %v\n", err)
		return 1
	}

	outcome := service.PlaceOrder(ctx, params)
	printOutcome(outcome.Placed, outcome.Order, string(outcome.Category), outcome.Message, outcome.Attempts)
	if !outcome.Placed {
		return 1
	}
	return 0
}

func buildLogger(cfg *config.Config) (ports.Logger, func(), error) {
	if cfg.LogFormat == config.LogFormatJSON {
		zl, err := logger.NewZapLogger(cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return zl, func() { _ = zl.Sync() }, nil
	}
	return logger.NewStdLogger(cfg.LogLevel), func() {}, nil
}

// missingEssentials reports whether any parameter required for batch mode is
// absent, which drops the CLI into interactive mode.
func missingEssentials(params app.OrderParams) bool {
	return params.Symbol == "" || params.Side == "" || params.Quantity == "" || params.Type == ""
}

func promptForParams(params app.OrderParams) app.OrderParams {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Interactive mode: press Enter to keep the value in brackets.")

	params.Symbol = prompt(reader, "Symbol (e.g. BTCUSDT)", params.Symbol)
	params.Side = prompt(reader, "Side (buy/sell)", params.Side)
	params.Quantity = prompt(reader, "Quantity", params.Quantity)
	params.Type = prompt(reader, "Type ("+strings.Join(strategy.SupportedTypes(), "/")+")", params.Type)
	if strings.EqualFold(strings.TrimSpace(params.Type), "limit") {
		params.Price = prompt(reader, "Price", params.Price)
	}
	return params
}

func prompt(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

func printSummary(params app.OrderParams, testnet bool) {
	env := "PRODUCTION"
	if testnet {
		env = "TESTNET"
	}
	fmt.Println()
	fmt.Println("Order summary")
	fmt.Printf("  Environment: %s\n", env)
	fmt.Printf("  Symbol:      %s\n", strings.ToUpper(strings.TrimSpace(params.Symbol)))
	fmt.Printf("  Side:        %s\n", strings.ToUpper(strings.TrimSpace(params.Side)))
	fmt.Printf("  Quantity:    %s\n", params.Quantity)
	fmt.Printf("  Type:        %s\n", strings.ToUpper(strings.TrimSpace(params.Type)))
	if params.Price != "" {
		fmt.Printf("  Price:       %s\n", params.Price)
	}
	fmt.Println()
}

func confirm() bool {
	fmt.Print("Place this order? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printOutcome(placed bool, order *ports.OrderResponse, category, message string, attempts int) {
	fmt.Println()
	if placed && order != nil {
		fmt.Println("ORDER PLACED")
		fmt.Printf("  Order ID:     %d\n", order.OrderID)
		fmt.Printf("  Client ID:    %s\n", order.ClientOrderID)
		fmt.Printf("  Symbol:       %s\n", order.Symbol)
		fmt.Printf("  Side:         %s\n", order.Side)
		fmt.Printf("  Type:         %s\n", order.Type)
		fmt.Printf("  Quantity:     %v\n", order.OrigQuantity)
		if order.Price > 0 {
			fmt.Printf("  Price:        %v\n", order.Price)
		}
		if order.ExecutedQty > 0 {
			fmt.Printf("  Filled:       %v @ %v\n", order.ExecutedQty, order.AvgPrice)
		}
		fmt.Printf("  Status:       %s\n", order.Status)
		if attempts > 1 {
			fmt.Printf("  Attempts:     %d\n", attempts)
		}
		return
	}
	fmt.Println("ORDER FAILED")
	fmt.Printf("  Category:     %s\n", category)
	fmt.Printf("  Reason:       %s\n", message)
	if attempts > 0 {
		fmt.Printf("  Attempts:     %d\n", attempts)
	}
}

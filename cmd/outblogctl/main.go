// Command outblogctl runs the sync and publish operations from the command line,
// for external schedulers and operators.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"outblog-shopify-app/internal/bootstrap"
	"outblog-shopify-app/internal/config"

	"github.com/jessevdk/go-flags"
)

type shopOption struct {
	Shop string `short:"s" long:"shop" description:"Shop domain (example.myshopify.com)" required:"true"`
}

type options struct {
	JSON bool `long:"json" description:"Print results as JSON"`
}

var opts options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Outblog to Shopify operator tool"

	parser.AddCommand("sync", "Sync posts from Outblog for one shop", "", &syncCommand{})
	parser.AddCommand("sync-all", "Sync posts for every shop with an API key", "", &syncAllCommand{})
	parser.AddCommand("publish-all", "Publish every unpublished post of a shop", "", &publishAllCommand{})
	parser.AddCommand("check-status", "Demote posts whose Shopify article is gone", "", &checkStatusCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// withApp loads config, wires the app and runs fn with a signal-aware context
func withApp(fn func(ctx context.Context, app *bootstrap.App) (interface{}, string, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := bootstrap.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	result, summary, err := fn(ctx, app)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Println(summary)
	return nil
}

type syncCommand struct{ shopOption }

func (c *syncCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, app *bootstrap.App) (interface{}, string, error) {
		n, err := app.Publishing.SyncPosts(ctx, c.Shop)
		if err != nil {
			return nil, "", err
		}
		return map[string]int{"synced": n}, fmt.Sprintf("Synced %d posts for %s", n, c.Shop), nil
	})
}

type syncAllCommand struct{}

func (c *syncAllCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, app *bootstrap.App) (interface{}, string, error) {
		result, err := app.Cron.SyncAll(ctx)
		if err != nil {
			return nil, "", err
		}
		return result, fmt.Sprintf("Synced %d of %d shops (%d failed)", result.Succeeded, result.Shops, result.Failed), nil
	})
}

type publishAllCommand struct{ shopOption }

func (c *publishAllCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, app *bootstrap.App) (interface{}, string, error) {
		result, err := app.Publishing.PublishAll(ctx, c.Shop)
		if err != nil {
			return nil, "", err
		}
		return result, fmt.Sprintf("%d published, %d failed", result.Published, len(result.Failures)), nil
	})
}

type checkStatusCommand struct{ shopOption }

func (c *checkStatusCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, app *bootstrap.App) (interface{}, string, error) {
		result, err := app.Publishing.CheckLiveStatus(ctx, c.Shop)
		if err != nil {
			return nil, "", err
		}
		return result, fmt.Sprintf("Checked %d posts, %d reverted to draft", result.Checked, result.Demoted), nil
	})
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"stockledger/internal/config"
	"stockledger/internal/domain"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

func newRootCmd(a *app, cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Inspect and change the inventory ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	a.txDefault, a.txMax = cfg.TxListDefault, cfg.TxListMax
	root.PersistentFlags().StringVar(&a.dbPath, "db", cfg.DBPath, "sqlite database path")
	root.PersistentFlags().StringVar(&a.backupDir, "backup-dir", cfg.BackupDir, "directory for backups")

	root.AddCommand(
		listCmd(a), getCmd(a), createCmd(a), importCmd(a),
		quantityCmd(a, "set", "Set a product's quantity", (*services.LedgerService).SetQuantity),
		quantityCmd(a, "add", "Add units to a product", (*services.LedgerService).IncrementQuantity),
		quantityCmd(a, "order", "Remove units from a product", (*services.LedgerService).DecrementQuantity),
		deleteCmd(a), historyCmd(a), transactionsCmd(a), searchCmd(a),
		statsCmd(a), verifyCmd(a), backupCmd(a), hashKeyCmd(),
		shellCmd(a, cfg),
	)
	return root
}

func parseID(s string) (int64, error) {
	id, ok := validate.ID(s)
	if !ok {
		return 0, domain.Validationf("invalid product id %q", s)
	}
	return id, nil
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.Validationf("%s must be an integer, got %q", field, s)
	}
	return n, nil
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			list, err := a.query.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			var (
				p     domain.Product
				found bool
				err   error
			)
			if id, ok := validate.ID(args[0]); ok {
				p, found, err = a.query.GetProduct(cmd.Context(), id)
			} else {
				p, found, err = a.query.GetProductByName(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if !found {
				return domain.NotFoundf("product %q not found", args[0])
			}
			printProducts(cmd.OutOrStdout(), []domain.Product{p})
			return nil
		},
	}
}

func createCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <quantity>",
		Short: "Create a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseInt("quantity", args[1])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			p, err := a.ledger.CreateProduct(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), []domain.Product{p})
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: `Create products from a JSON array of {"product_name","quantity"}`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var items []domain.ImportItem
			if err := json.Unmarshal(raw, &items); err != nil {
				return domain.Validationf("parse %s: %v", args[0], err)
			}
			if err := a.open(); err != nil {
				return err
			}
			res, err := a.ledger.ImportProducts(cmd.Context(), items)
			if err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

type quantityOp func(s *services.LedgerService, ctx context.Context, id int64, n int) (domain.Product, error)

func quantityCmd(a *app, use, short string, op quantityOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := parseInt("amount", args[1])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			p, err := op(a.ledger, cmd.Context(), id, n)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), []domain.Product{p})
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			d, err := a.ledger.DeleteProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (id %d), %d ledger entries removed\n",
				d.ProductName, d.ProductID, d.TransactionsRemoved)
			return nil
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show a product's ledger, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			list, err := a.query.ListTransactionsForProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func transactionsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Show the latest ledger entries across products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			list, err := a.query.ListTransactions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries (0 = default)")
	return cmd
}

func searchCmd(a *app) *cobra.Command {
	var name, minQ, maxQ, inStock string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter products by name, quantity range and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := domain.SearchFilter{Name: name}
			var ok bool
			if f.MinQuantity, ok = validate.OptQty(minQ); !ok {
				return domain.Validationf("--min must be a non-negative integer")
			}
			if f.MaxQuantity, ok = validate.OptQty(maxQ); !ok {
				return domain.Validationf("--max must be a non-negative integer")
			}
			if f.InStock, ok = validate.OptBool(inStock); !ok {
				return domain.Validationf("--in-stock must be true or false")
			}
			if err := a.open(); err != nil {
				return err
			}
			list, err := a.query.SearchProducts(cmd.Context(), f)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "case-insensitive name substring")
	cmd.Flags().StringVar(&minQ, "min", "", "minimum quantity")
	cmd.Flags().StringVar(&maxQ, "max", "", "maximum quantity")
	cmd.Flags().StringVar(&inStock, "in-stock", "", "true or false")
	return cmd
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			st, err := a.query.Stats(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func verifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Replay a product's ledger and compare with its quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			check, err := a.query.VerifyLedger(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "consistent"
			if !check.Consistent {
				state = "DRIFT"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d: quantity %d, replayed %d over %d entries: %s\n",
				check.ProductID, check.Quantity, check.Replayed, check.Entries, state)
			return nil
		},
	}
}

func backupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a consistent snapshot into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			path, err := a.backup.Backup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func hashKeyCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-key <key>",
		Short: "Print the bcrypt hash to use as API_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := services.HashAPIKey(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (0 = default)")
	return cmd
}

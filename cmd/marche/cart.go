package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and modify the shopping cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		printCart(a)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add PRODUCT_ID",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		product, err := a.client.Product(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		addErr := a.cart.AddItem(cmd.Context(), *product, quantity)
		printCart(a)
		return addErr
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update ITEM_ID QUANTITY",
	Short: "Set the quantity of a cart line (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number: %q", args[1])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.cart.UpdateQuantity(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		printCart(a)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove ITEM_ID",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.cart.RemoveItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		printCart(a)
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.cart.Clear(cmd.Context()); err != nil {
			return err
		}
		printCart(a)
		return nil
	},
}

var cartSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-fetch the cart from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		a.cart.Sync(cmd.Context())
		printCart(a)
		return nil
	},
}

func printCart(a *app) {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE\tLINE TOTAL")
		for _, it := range items {
			lineTotal := it.Product.Price * float64(it.Quantity)
			fmt.Fprintf(w, "%s\t%s\t%d\tD%.2f\tD%.2f\n", it.ID, it.Product.Name, it.Quantity, it.Product.Price, lineTotal)
		}
		w.Flush()
		fmt.Printf("Total: D%.2f (%d items)\n", a.cart.Total(), a.cart.ItemCount())
	}
	if msg := a.cart.Err(); msg != "" {
		fmt.Println("Note:", msg)
	}
}

func init() {
	cartAddCmd.Flags().Int("quantity", 1, "units to add")
	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd, cartSyncCmd)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"marche/api"
	"marche/models"
)

var ordersCmd = &cobra.Command{
	Use:   "orders [ID]",
	Short: "List past orders, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			o, err := a.client.Order(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOrder(o)
			return nil
		}

		status, _ := cmd.Flags().GetString("status")
		orders, err := a.client.Orders(cmd.Context(), api.OrdersParams{Status: status})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\tD%.2f\t%s\n", o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the current cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		method, _ := cmd.Flags().GetString("method")
		details, ok := api.PaymentDetailsFor(method)
		if !ok {
			return fmt.Errorf("unknown payment method %q (use %s or %s)", method, api.PaymentWave, api.PaymentTrustBank)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		items := a.cart.Items()
		if len(items) == 0 {
			return fmt.Errorf("cart is empty")
		}

		street, _ := cmd.Flags().GetString("street")
		city, _ := cmd.Flags().GetString("city")
		region, _ := cmd.Flags().GetString("region")
		phone, _ := cmd.Flags().GetString("phone")
		notes, _ := cmd.Flags().GetString("notes")

		input := models.OrderInput{
			PaymentMethod:    method,
			PaymentReference: api.GeneratePaymentReference(""),
			ShippingAddress: models.ShippingAddress{
				Street: street,
				City:   city,
				Region: region,
				Phone:  phone,
			},
			Notes: notes,
		}
		for _, it := range items {
			input.Items = append(input.Items, models.OrderItemInput{
				ProductID: it.Product.ID,
				Quantity:  it.Quantity,
			})
		}

		order, err := a.client.CreateOrder(cmd.Context(), input)
		if err != nil {
			return err
		}
		// The server dropped the ordered products from the cart; pick that up.
		a.cart.Sync(cmd.Context())

		printOrder(order)
		fmt.Println()
		fmt.Println("Payment instructions:")
		fmt.Printf("  Reference: %s\n", input.PaymentReference)
		fmt.Printf("  Account:   %s (%s)\n", details.AccountNumber, details.AccountName)
		if details.Branch != "" {
			fmt.Printf("  Branch:    %s\n", details.Branch)
		}
		fmt.Printf("  %s\n", details.Instructions)
		return nil
	},
}

var orderCancelCmd = &cobra.Command{
	Use:   "cancel ORDER_ID",
	Short: "Cancel a pending order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.client.CancelOrder(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Order cancelled")
		return nil
	},
}

func printOrder(o *models.Order) {
	fmt.Printf("Order %s  %s  D%.2f\n", o.ID, o.Status, o.Total)
	for _, it := range o.Items {
		fmt.Printf("  %dx %s  D%.2f\n", it.Quantity, it.Product.Name, it.Product.Price)
	}
	if o.PaymentReference != "" {
		fmt.Printf("  Payment: %s (%s)\n", o.PaymentMethod, o.PaymentReference)
	}
}

func init() {
	ordersCmd.Flags().String("status", "", "filter by order status")
	ordersCmd.AddCommand(orderCancelCmd)
	checkoutCmd.Flags().String("method", api.PaymentWave, "payment method")
	checkoutCmd.Flags().String("street", "", "shipping street")
	checkoutCmd.Flags().String("city", "", "shipping city")
	checkoutCmd.Flags().String("region", "", "shipping region")
	checkoutCmd.Flags().String("phone", "", "contact phone")
	checkoutCmd.Flags().String("notes", "", "delivery notes")
}

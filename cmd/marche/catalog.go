package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"marche/api"
)

var productsCmd = &cobra.Command{
	Use:   "products [ID]",
	Short: "List products, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			p, err := a.client.Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s  D%.2f\n", p.Name, p.Price)
			fmt.Printf("  Vendor:   %s\n", p.Vendor.Name)
			fmt.Printf("  Category: %s\n", p.Category.Name)
			fmt.Printf("  Stock:    %d\n", p.Stock)
			if p.Description != "" {
				fmt.Printf("  %s\n", p.Description)
			}
			return nil
		}

		search, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		vendor, _ := cmd.Flags().GetString("vendor")
		products, err := a.client.Products(cmd.Context(), api.ProductsParams{
			Search:     search,
			CategoryID: category,
			VendorID:   vendor,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tVENDOR")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\tD%.2f\t%d\t%s\n", p.ID, p.Name, p.Price, p.Stock, p.Vendor.Name)
		}
		return w.Flush()
	},
}

var vendorsCmd = &cobra.Command{
	Use:   "vendors [ID]",
	Short: "List approved vendors, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			v, err := a.client.Vendor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (rating %.1f)\n", v.Name, v.Rating)
			if v.Description != "" {
				fmt.Printf("  %s\n", v.Description)
			}
			if v.Address != "" {
				fmt.Printf("  Address: %s\n", v.Address)
			}
			return nil
		}

		search, _ := cmd.Flags().GetString("search")
		vendors, err := a.client.Vendors(cmd.Context(), api.VendorsParams{Search: search})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tRATING")
		for _, v := range vendors {
			fmt.Fprintf(w, "%s\t%s\t%.1f\n", v.ID, v.Name, v.Rating)
		}
		return w.Flush()
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List browsing categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		categories, err := a.client.Categories(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%s\t%s\n", c.ID, c.Name)
		}
		return nil
	},
}

func init() {
	productsCmd.Flags().String("search", "", "filter by name")
	productsCmd.Flags().String("category", "", "filter by category id")
	productsCmd.Flags().String("vendor", "", "filter by vendor id")
	vendorsCmd.Flags().String("search", "", "filter by name")
}

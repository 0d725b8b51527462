package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/jrsteele09/go-admin-session/products"
	"github.com/spf13/cobra"
)

var (
	productsFilter products.Filter
	productInput   products.Input
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalogue",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := app.api.ListProducts(cmd.Context(), productsFilter)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSALES")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Stock, p.Sales)
		}
		return w.Flush()
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.api.DeleteProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(app.out, "deleted product %s\n", args[0])
		return nil
	},
}

var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := app.api.CreateProduct(cmd.Context(), productInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "added product %s (%s)\n", p.ID, p.Name)
		return nil
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Change a product",
	Long:  `Only the fields given as flags change; the others keep their current values.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		current, err := findProduct(cmd, args[0])
		if err != nil {
			return err
		}

		in := products.InputOf(current)
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = productInput.Name
		}
		if flags.Changed("description") {
			in.Description = productInput.Description
		}
		if flags.Changed("price") {
			in.Price = productInput.Price
		}
		if flags.Changed("category") {
			in.Category = productInput.Category
		}
		if flags.Changed("vendor") {
			in.Vendor = productInput.Vendor
		}
		if flags.Changed("stock") {
			in.Stock = productInput.Stock
		}

		p, err := app.api.UpdateProduct(ctx, current.ID, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "updated product %s (%s)\n", p.ID, p.Name)
		return nil
	},
}

// findProduct looks a product up in the full listing; the API has no single
// product endpoint.
func findProduct(cmd *cobra.Command, id string) (*products.Product, error) {
	list, err := app.api.ListProducts(cmd.Context(), products.Filter{})
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("product %s not found", id)
}

func productFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&productInput.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&productInput.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&productInput.Price, "price", 0, "Price")
	cmd.Flags().StringVar(&productInput.Category, "category", "", "Category")
	cmd.Flags().StringVar(&productInput.Vendor, "vendor", "", "Vendor")
	cmd.Flags().IntVar(&productInput.Stock, "stock", 0, "Units in stock")
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsAddCmd, productsUpdateCmd, productsDeleteCmd)
	productFlags(productsAddCmd)
	productFlags(productsUpdateCmd)
	productsListCmd.Flags().StringVar(&productsFilter.Name, "name", "", "Only list products whose name contains this text")
	productsListCmd.Flags().StringVar(&productsFilter.Category, "category", "", "Only list products of this category")
}

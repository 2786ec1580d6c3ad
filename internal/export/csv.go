package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/dukerupert/mealwise/internal/model"
)

var csvHeader = []string{"category", "name", "quantity", "unit", "estimated_cost", "staple", "meal_sources"}

// RenderCSV writes the list items in their stored order followed by a total
// row.
func RenderCSV(w io.Writer, l *model.ShoppingList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range l.Items {
		row := []string{
			string(item.Category),
			item.Name,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			item.Unit,
			strconv.FormatFloat(item.EstimatedCost, 'f', 2, 64),
			strconv.FormatBool(item.IsStaple),
			strings.Join(item.MealSources, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	total := []string{"", "total", "", "", strconv.FormatFloat(l.TotalEstimatedCost, 'f', 2, 64), "", ""}
	if err := cw.Write(total); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

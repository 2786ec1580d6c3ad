package shopping

import "github.com/dukerupert/mealwise/internal/model"

var categoryPrices = map[model.IngredientCategory]float64{
	model.CategoryProduce: 2.50,
	model.CategoryMeat:    8.00,
	model.CategoryDairy:   3.50,
	model.CategoryPantry:  2.00,
	model.CategoryFrozen:  4.00,
	model.CategoryOther:   3.00,
}

// ItemCost is the rough price of a single item. The quantity is halved since
// recipe quantities rarely map one-to-one onto purchasable units.
func ItemCost(item model.ShoppingListItem) float64 {
	price, ok := categoryPrices[item.Category]
	if !ok {
		price = categoryPrices[model.CategoryOther]
	}
	return price * item.Quantity / 2
}

// EstimateCost fills in each item's estimated cost and returns the total.
func EstimateCost(items []model.ShoppingListItem) float64 {
	var total float64
	for i := range items {
		items[i].EstimatedCost = ItemCost(items[i])
		total += items[i].EstimatedCost
	}
	return total
}

// CategoryBreakdown counts items per category.
func CategoryBreakdown(items []model.ShoppingListItem) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[string(item.Category)]++
	}
	return counts
}

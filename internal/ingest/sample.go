package ingest

import "github.com/hyperjump/kondate/internal/models"

// SampleSource is the source name of the built-in sample corpus.
const SampleSource = "sample:meal_data.csv"

// sampleCSV is a small starter corpus covering every meal slot.
const sampleCSV = `Category,Item,Serving Size,Calories
Breakfast,Scrambled Eggs,2 eggs,140
Breakfast,Oatmeal,1 cup cooked,150
Breakfast,Greek Yogurt,1 cup,100
Breakfast,Whole Grain Toast,2 slices,160
Breakfast,Banana,1 medium,105
Breakfast,Orange Juice,8 oz,110
Breakfast,Coffee with Milk,12 oz,80
Lunch,Grilled Chicken Salad,"6 oz chicken, mixed greens",350
Lunch,Turkey Sandwich,"whole grain bread, 4 oz turkey",320
Lunch,Quinoa Bowl,"1 cup quinoa, vegetables",400
Lunch,Vegetable Stir Fry,"mixed vegetables, tofu",280
Lunch,Pasta Primavera,"whole wheat pasta, vegetables",380
Lunch,Chicken Wrap,"whole wheat tortilla, chicken",360
Lunch,Lentil Soup,1.5 cups,220
Dinner,Grilled Salmon,6 oz salmon,350
Dinner,Beef Stir Fry,"6 oz beef, vegetables",420
Dinner,Chicken Parmesan,"6 oz chicken, pasta",480
Dinner,Vegetable Curry,"rice, mixed vegetables",380
Dinner,Pork Tenderloin,6 oz pork,340
Dinner,Shrimp Scampi,"6 oz shrimp, pasta",360
Dinner,Lamb Chops,6 oz lamb,400
Dinner,Tuna Steak,6 oz tuna,320
Snacks,Apple,1 medium,95
Snacks,Almonds,1 oz (23 almonds),160
Snacks,Greek Yogurt,6 oz,100
Snacks,Carrot Sticks,1 cup,50
Snacks,Protein Bar,1 bar,200
Snacks,Trail Mix,1/4 cup,150
Snacks,Cheese Stick,1 oz,110
Snacks,Rice Cakes,2 cakes,70
`

// SampleFoods returns the built-in sample corpus.
func SampleFoods() ([]*models.FoodInput, error) {
	return NewParser().Parse([]byte(sampleCSV), ".csv")
}

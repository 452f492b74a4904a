package catalog

// DefaultEntries is the fixed menu of the Gado-Gado Kaliurang counter.
// Prices are whole rupiah.
var DefaultEntries = []Entry{
	{ID: "makanan-1", Name: "Rujak Cingur", UnitPrice: 30000, Category: CategoryFood},
	{ID: "makanan-2", Name: "Gado Gado", UnitPrice: 25000, Category: CategoryFood},
	{ID: "makanan-3", Name: "Rujak Manis", UnitPrice: 20000, Category: CategoryFood},
	{ID: "makanan-4", Name: "Rujak Bangkok", UnitPrice: 20000, Category: CategoryFood},
	{ID: "makanan-5", Name: "Nasi Ayam Bacem", UnitPrice: 20000, Category: CategoryFood},
	{ID: "minuman-1", Name: "Es Campur", UnitPrice: 15000, Category: CategoryDrink},
	{ID: "minuman-2", Name: "Es Teler", UnitPrice: 15000, Category: CategoryDrink},
	{ID: "minuman-3", Name: "Es Dawet", UnitPrice: 10000, Category: CategoryDrink},
	{ID: "minuman-4", Name: "Es Cao", UnitPrice: 10000, Category: CategoryDrink},
	{ID: "minuman-5", Name: "Es/Panas Jeruk", UnitPrice: 10000, Category: CategoryDrink},
	{ID: "minuman-6", Name: "Es/Panas Teh", UnitPrice: 10000, Category: CategoryDrink},
	{ID: "minuman-7", Name: "Kopi Tubruk", UnitPrice: 10000, Category: CategoryDrink},
}

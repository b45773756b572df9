package state

// Demo is a ready-made image and query set for the object detection form.
type Demo struct {
	ID      string
	Title   string
	URL     string
	Queries []string
}

var demos = []Demo{
	{
		ID:      "pets",
		Title:   "Pets & Animals",
		URL:     "https://images.unsplash.com/photo-1606567595334-d39972c85dbe",
		Queries: []string{"a cat", "a dog"},
	},
	{
		ID:      "traffic",
		Title:   "City Traffic Scene",
		URL:     "https://images.unsplash.com/photo-1449824913935-59a10b8d2000",
		Queries: []string{"traffic light", "a man with red shirt", "yellow car"},
	},
	{
		ID:      "mangoes",
		Title:   "Mangoes",
		URL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e3/Mangoes_%28Magnifera_indica%29_from_India.jpg/1200px-Mangoes_%28Magnifera_indica%29_from_India.jpg",
		Queries: []string{"green mango", "rotten mango", "devil fruit"},
	},
}

func Demos() []Demo {
	return demos
}

func FindDemo(id string) (Demo, bool) {
	for _, d := range demos {
		if d.ID == id {
			return d, true
		}
	}
	return Demo{}, false
}

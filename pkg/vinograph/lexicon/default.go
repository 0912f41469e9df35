package lexicon

// Default returns the built-in aroma wheel with its anchors, intensity
// modifiers and category boosters.
func Default() *Lexicon {
	l := New()
	for _, f := range defaultFlavors {
		l.AddFlavor(f.category, MustHex(f.color), f.words...)
	}
	for _, t := range defaultTriggers {
		l.AddTrigger(t.categories, t.words...)
	}
	for w, v := range defaultAnchors {
		l.SetAnchor(w, v)
	}
	for w, v := range defaultIntensity {
		l.SetIntensity(w, v)
	}
	return l
}

type flavorDef struct {
	category string
	color    string
	words    []string
}

type triggerDef struct {
	words      []string
	categories []string
}

var defaultAnchors = map[string]float64{
	// nose
	"color": 0.05, "eye": 0.05,
	"nose": 0.1, "aroma": 0.1, "start": 0.1,
	"bouquet": 0.15, "smell": 0.15, "scent": 0.15, "sniff": 0.15,
	"opening": 0.15, "attack": 0.15, "entry": 0.15,
	// palate
	"sip": 0.4, "drink": 0.4,
	"body": 0.45, "texture": 0.45, "mouthfeel": 0.45,
	"palate": 0.5, "taste": 0.5, "mouth": 0.5, "flavor": 0.5, "flavour": 0.5,
	"mid": 0.5, "middle": 0.5, "tongue": 0.5,
	// finish
	"finish": 0.85, "linger": 0.88, "lingering": 0.88,
	"aftertaste": 0.9, "end": 0.9, "ending": 0.9, "conclusion": 0.9, "tail": 0.9,
}

var defaultIntensity = map[string]float64{
	"hint": 0.2, "hints": 0.2, "touch": 0.2, "trace": 0.2, "subtle": 0.2, "faint": 0.2,
	"whisper": 0.3, "light": 0.3, "slight": 0.3, "slightly": 0.3,
	"delicate": 0.4, "soft": 0.4, "background": 0.4,
	"shy": 0.5,
	"mild": 0.6, "medium": 0.6,
	"strong": 1.0, "powerful": 1.0, "bold": 1.0, "intense": 1.0, "deep": 1.0,
	"heavy": 1.0, "rich": 1.0, "concentrated": 1.0, "pronounced": 1.0,
	"explosion": 1.0, "bomb": 1.0, "burst": 1.0, "blast": 1.0,
	"dominant": 1.0, "massive": 1.0, "extreme": 1.0, "super": 1.0,
	"very": 1.0, "lots": 1.0, "much": 1.0, "full": 1.0,
	"big": 1.0, "sharp": 1.0, "good": 1.0, "excellent": 1.0, "great": 1.0, "nice": 1.0,
}

var defaultTriggers = []triggerDef{
	{[]string{"earthy"}, []string{"Mineral", "Vegetal", "Animal", "Woods", "Earthy"}},
	{[]string{"fruity"}, []string{"Citrus", "Pome Fruit", "Stone Fruit", "Tropical", "Red Berries", "Black Berries"}},
	{[]string{"red fruit"}, []string{"Red Berries"}},
	{[]string{"black fruit"}, []string{"Black Berries"}},
	{[]string{"ripe"}, []string{"Dried Fruit"}},
	{[]string{"floral", "flower"}, []string{"Floral"}},
	{[]string{"vegetality"}, []string{"Vegetal"}},
	{[]string{"woody"}, []string{"Woods"}},
	{[]string{"malolactic"}, []string{"Malolactic", "Yeast"}},
	{[]string{"nutty"}, []string{"Nuts"}},
	{[]string{"toasty"}, []string{"Toasted", "Spice"}},
	{[]string{"citrus"}, []string{"Citrus"}},
	{[]string{"perfume"}, []string{"Floral", "Herbal"}},
	{[]string{"tropical"}, []string{"Tropical"}},
	{[]string{"funky"}, []string{"Funky", "Animal"}},
	{[]string{"herbal"}, []string{"Herbal"}},
}

var defaultFlavors = []flavorDef{
	// fruit
	{"Citrus", "#F5EE25", []string{"lemon"}},
	{"Citrus", "#D6E253", []string{"lime"}},
	{"Citrus", "#EAD55C", []string{"grapefruit"}},
	{"Citrus", "#EAB85C", []string{"tangerine"}},
	{"Citrus", "#F29C33", []string{"orange peel", "orange"}},
	{"Pome Fruit", "#DCE298", []string{"pear"}},
	{"Pome Fruit", "#ECD56E", []string{"apple"}},
	{"Pome Fruit", "#E6C73E", []string{"quince"}},
	{"Pome Fruit", "#A7D14C", []string{"green apple"}},
	{"Green Fruit", "#CCE798", []string{"gooseberry", "goose berry"}},
	{"Stone Fruit", "#F7CF6B", []string{"peach"}},
	{"Stone Fruit", "#F7CF6B", []string{"apricot"}},
	{"Tropical", "#F4C561", []string{"melon"}},
	{"Tropical", "#EBB55F", []string{"guava"}},
	{"Tropical", "#F2D64B", []string{"pineapple"}},
	{"Tropical", "#E9B949", []string{"passion fruit", "passionfruit"}},
	{"Tropical", "#EBC47C", []string{"lychee"}},
	{"Tropical", "#F2A93B", []string{"dried apricot"}},
	{"Tropical", "#E9D287", []string{"banana"}},
	{"Red Berries", "#A81830", []string{"cherry"}},
	{"Red Berries", "#C9244B", []string{"currant"}},
	{"Red Berries", "#D93B57", []string{"raspberry"}},
	{"Red Berries", "#BE1940", []string{"redcurrant"}},
	{"Red Berries", "#BA1E42", []string{"strawberry"}},
	{"Black Berries", "#571949", []string{"blackcurrant", "cassis"}},
	{"Black Berries", "#52152A", []string{"blackberry"}},
	{"Black Berries", "#330A14", []string{"blackcherry", "black cherry"}},
	{"Dried Fruit", "#611E52", []string{"plum"}},
	{"Dried Fruit", "#2A1536", []string{"prune"}},
	{"Dried Fruit", "#411111", []string{"raisin"}},

	// floral
	{"Floral", "#F7EDC5", []string{"honeysuckle"}},
	{"Floral", "#DFB4CD", []string{"hawthorn"}},
	{"Floral", "#F7C4C4", []string{"orange blossom"}},
	{"Floral", "#D6D39F", []string{"linden"}},
	{"Floral", "#F7E8F1", []string{"jasmine"}},
	{"Floral", "#EBE9D1", []string{"acacia"}},
	{"Floral", "#88316E", []string{"rose"}},
	{"Floral", "#9B518B", []string{"lavender"}},
	{"Floral", "#772C81", []string{"violet"}},

	// vegetal and herbal
	{"Vegetal", "#8CB83A", []string{"capsicum", "bell pepper"}},
	{"Vegetal", "#96C063", []string{"fennel"}},
	{"Vegetal", "#B44945", []string{"rose hip"}},
	{"Vegetal", "#B46945", []string{"tomato"}},
	{"Vegetal", "#558554", []string{"cut grass", "grass"}},
	{"Vegetal", "#6B8836", []string{"olive"}},
	{"Vegetal", "#389654", []string{"asparagus"}},
	{"Herbal", "#4E8757", []string{"cat pee", "pee", "boxwood"}},
	{"Herbal", "#4E8757", []string{"dill"}},
	{"Herbal", "#437B55", []string{"thyme"}},
	{"Herbal", "#3B7052", []string{"fern"}},
	{"Herbal", "#34664F", []string{"mint"}},
	{"Herbal", "#7A823B", []string{"hay"}},
	{"Herbal", "#606436", []string{"black tea", "tea"}},
	{"Herbal", "#806036", []string{"tobacco"}},
	{"Herbal", "#48633B", []string{"blackcurrant leaf", "currant leaf"}},
	{"Herbal", "#3E5C3C", []string{"bay leaf"}},
	{"Herbal", "#36523F", []string{"eucalyptus"}},

	// mineral and earth
	{"Mineral", "#CAD7EB", []string{"chalk", "limestone"}},
	{"Mineral", "#7E92B1", []string{"mineral"}},
	{"Mineral", "#7E92B1", []string{"flint", "flinty"}},
	{"Mineral", "#A4B9D8", []string{"stone", "wet stone"}},
	{"Mineral", "#8271AA", []string{"iodine"}},
	{"Mineral", "#738BAC", []string{"petrol", "kerosene", "diesel"}},
	{"Mineral", "#F3E7D0", []string{"beeswax", "wax"}},
	{"Earthy", "#683D31", []string{"mushroom"}},
	{"Earthy", "#5F503E", []string{"soil", "dirt"}},
	{"Earthy", "#857257", []string{"truffle"}},
	{"Earthy", "#5D5F49", []string{"forest floor"}},
	{"Earthy", "#50616E", []string{"geosmin"}},

	// others
	{"Honey", "#F3C164", []string{"honey"}},
	{"Honey", "#E7CD9B", []string{"honeycomb"}},
	{"Honey", "#F3C164", []string{"marmalade"}},
	{"Yeast", "#CCA26A", []string{"bread"}},
	{"Malolactic", "#F7F6C6", []string{"butter", "buttery"}},
	{"Malolactic", "#E7E1CD", []string{"cream"}},
	{"Malolactic", "#EDD9A8", []string{"yeast"}},
	{"Malolactic", "#EDD9A8", []string{"milk chocolate"}},
	{"Toasted", "#964A37", []string{"caramel"}},
	{"Toasted", "#AA6841", []string{"butterscotch"}},
	{"Toasted", "#8A5D45", []string{"chocolate", "cocoa"}},
	{"Toasted", "#6E4D3A", []string{"toast"}},
	{"Toasted", "#7A5043", []string{"coffee", "espresso"}},
	{"Toasted", "#533127", []string{"mocha"}},
	{"Toasted", "#66423A", []string{"bacon", "meaty"}},
	{"Toasted", "#6B3630", []string{"smoke"}},
	{"Toasted", "#3A211E", []string{"tar"}},
	{"Spice", "#D48642", []string{"vanilla"}},
	{"Spice", "#CC783B", []string{"pepper", "black pepper"}},
	{"Spice", "#C46B35", []string{"cinnamon"}},
	{"Spice", "#BB5E2F", []string{"liquorice", "licorice"}},
	{"Spice", "#B0502A", []string{"nutmeg"}},
	{"Spice", "#B0972A", []string{"ginger"}},
	{"Spice", "#A64325", []string{"clove"}},
	{"Spice", "#69140D", []string{"anise"}},
	{"Nuts", "#E3A836", []string{"coconut"}},
	{"Nuts", "#D69830", []string{"hazelnut"}},
	{"Nuts", "#C9892B", []string{"almond"}},
	{"Woods", "#64472E", []string{"oak", "oaky"}},
	{"Woods", "#815328", []string{"sandalwood"}},
	{"Woods", "#965725", []string{"cedar"}},
	{"Woods", "#855E23", []string{"pine"}},
	{"Woods", "#41332A", []string{"graphite", "lead pencil", "pencil shaving"}},
	{"Animal", "#885B40", []string{"leather", "saddle"}},
	{"Animal", "#694D47", []string{"gravy"}},
	{"Animal", "#691B1B", []string{"game", "barnyard"}},
	{"Animal", "#CE865C", []string{"musk"}},
	{"Sulfuric", "#DFAC4D", []string{"gun powder", "gunpowder"}},
	{"Funky", "#C4A6C5", []string{"bubble gum", "gum"}},
	{"Faults", "#7DC4CC", []string{"corked", "musty"}},
	{"Faults", "#502037", []string{"sherry", "oxidized"}},
	{"Faults", "#E84D5B", []string{"madeira"}},
	{"Faults", "#E97979", []string{"vinegar"}},
	{"Faults", "#E9BDA4", []string{"bandaid"}},
	{"Faults", "#D15E81", []string{"nail polish"}},
	{"Faults", "#61A375", []string{"rubber"}},
	{"Faults", "#89B872", []string{"onion"}},
	{"Faults", "#4D8076", []string{"sweet corn"}},
	{"Faults", "#2F5C5A", []string{"horse sweat"}},
	{"Faults", "#3A0F04", []string{"brett"}},
}

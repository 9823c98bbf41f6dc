package vocab

// Artifact patterns observed in phone OCR output. Order matters: the
// specific prefixes must run before the generic leading-junk strip.
var defaultNoise = []string{
	`^i\s+`,
	`^of\s+`,
	`^\d+\s+`,
	`^[^\p{L}\p{N}_]+`,
}

var coreBrands = []string{
	"Saint Laurent",
	"The Row",
	"Prada",
	"Tom Ford",
	"Brunello Cucinelli",
	"Loro Piana",
	"Zegna",
	"Hermès",
	"Hermes",
	"Bottega Veneta",
	"Gucci",
	"Valentino",
	"Burberry",
	"Ralph Lauren",
	"Polo Ralph Lauren",
}

var italianBrands = []string{
	"Boglioli",
	"Lardini",
	"Caruso",
	"Canali",
	"Kiton",
	"Isaia",
	"Brioni",
	"De Petrillo",
	"Ring Jacket",
}

var europeanBrands = []string{
	"Celine",
	"Dior",
	"Balenciaga",
	"Acne Studios",
	"Thom Browne",
	"Maison Margiela",
	"Lanvin",
	"Dries Van Noten",
	"Dries",
	"Jil Sander",
	"Marni",
	"Lemaire",
	"Margaret Howell",
	"Loewe",
}

var britishBrands = []string{
	"Drake's",
	"Drakes",
	"Anderson & Sheppard",
	"Sunspel",
	"John Smedley",
	"Private White V.C.",
	"SEH Kelly",
	"Clarks",
	"Dunhill",
}

var contemporaryBrands = []string{
	"Stone Island",
	"Moncler",
	"Off-White",
	"Fear of God",
	"Rick Owens",
	"Common Projects",
	"A.P.C.",
	"APC",
	"Norse Projects",
	"Our Legacy",
	"Auralee",
}

var knitwearBrands = []string{
	"Iris Von Arnim",
	"Le Kasha",
	"Fedeli",
	"Gran Sasso",
	"Zanone",
	"The Elder Statesman",
}

var otherBrands = []string{
	"Altea",
	"Officine Generale",
	"Beams",
	"Lacoste",
	"Frame",
	"Frankie Shop",
	"Massimo Alba",
	"Berg & Berg",
	"Saman Amel",
	"Stoffa",
	"Canada Goose",
	"Derek Rose",
	"Castaner",
	"Ikiji",
}

func concat(groups ...[]string) []string {
	out := []string{}
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func mustCompile(v *Vocabulary) *Vocabulary {
	if err := v.Compile(); err != nil {
		panic(err)
	}
	return v
}

func Summer() *Vocabulary {
	return mustCompile(&Vocabulary{
		Collection: "summer",
		Categories: []Category{
			{Name: "Outerwear", Keywords: []string{"jacket", "blazer", "cardigan"}},
			{Name: "Tops", Keywords: []string{"polo", "shirt", "sweater", "tee", "t-shirt", "blouse", "henley"}},
			{Name: "Bottoms", Keywords: []string{"trouser", "pant", "short", "jean", "chino", "khaki", "5-pocket", "5 pocket", "corduroy"}},
			{Name: "Footwear", Keywords: []string{"loafer", "sandal", "espadrille", "shoe", "sneaker", "moccasin"}},
			{Name: "Accessories", Keywords: []string{"belt", "watch", "sunglasses", "hat", "tie"}},
		},
		Brands: concat(coreBrands, italianBrands, knitwearBrands, []string{
			"Altea", "Beams", "Lacoste", "Dries", "Loewe", "Fedeli", "Frame", "APC",
			"Frankie Shop", "Brioni", "Sunspel", "Massimo Alba", "Dunhill", "Derek Rose",
			"Castaner", "Ikiji", "Drakes", "Drake's",
		}),
		Noise:      append([]string{}, defaultNoise...),
		MinItemLen: DefaultMinItemLen,
		MaxItemLen: DefaultMaxItemLen,
	})
}

func Spring() *Vocabulary {
	return mustCompile(&Vocabulary{
		Collection: "spring",
		Categories: []Category{
			{Name: "Outerwear", Keywords: []string{"jacket", "coat", "blazer", "windbreaker", "bomber", "trench", "parka", "vest", "overcoat"}},
			{Name: "Tops", Keywords: []string{"shirt", "polo", "t-shirt", "tee", "blouse", "sweater", "pullover", "hoodie", "cardigan", "knit", "henley", "tank", "turtleneck", "sweatshirt"}},
			{Name: "Bottoms", Keywords: []string{"trouser", "pant", "jean", "chino", "short", "slack", "jogger", "corduroy", "5 pocket", "5-pocket"}},
			{Name: "Footwear", Keywords: []string{"shoe", "sneaker", "loafer", "boot", "sandal", "slipper", "oxford", "derby", "moccasin", "espadrille", "desert boot"}},
			{Name: "Accessories", Keywords: []string{"belt", "watch", "sunglasses", "hat", "cap", "scarf", "tie", "bag", "wallet", "bracelet", "necklace"}},
			{Name: "Suits", Keywords: []string{"suit", "tuxedo"}},
			{Name: "Activewear", Keywords: []string{"tracksuit", "sweatpant", "athletic", "gym", "running", "training"}},
		},
		Brands: concat(coreBrands, italianBrands, europeanBrands, contemporaryBrands,
			knitwearBrands, otherBrands),
		Noise:      append([]string{}, defaultNoise...),
		MinItemLen: DefaultMinItemLen,
		MaxItemLen: DefaultMaxItemLen,
	})
}

func FallWinter() *Vocabulary {
	return mustCompile(&Vocabulary{
		Collection: "fw",
		Categories: []Category{
			{Name: "Outerwear", Keywords: []string{"coat", "jacket", "blazer", "overcoat", "parka", "bomber", "windbreaker", "trench", "peacoat", "duffle", "topcoat", "raincoat", "anorak"}},
			{Name: "Knitwear", Keywords: []string{"sweater", "cardigan", "pullover", "jumper", "knit", "turtleneck", "rollneck", "v-neck", "crewneck", "cable knit", "merino", "cashmere", "wool"}},
			{Name: "Tops", Keywords: []string{"shirt", "polo", "blouse", "t-shirt", "tee", "henley", "oxford", "flannel"}},
			{Name: "Bottoms", Keywords: []string{"trouser", "pant", "jean", "chino", "corduroy", "slack", "wool pant", "flannel trouser", "5 pocket", "5-pocket"}},
			{Name: "Footwear", Keywords: []string{"boot", "shoe", "loafer", "oxford", "derby", "chelsea", "combat boot", "desert boot", "sneaker", "brogue", "monk strap", "chukka"}},
			{Name: "Accessories", Keywords: []string{"scarf", "glove", "hat", "beanie", "cap", "belt", "watch", "bag", "sunglasses", "tie", "pocket square", "muffler"}},
			{Name: "Suits", Keywords: []string{"suit", "tuxedo", "dinner jacket", "formal"}},
			{Name: "Layering", Keywords: []string{"vest", "gilet", "waistcoat", "liner", "thermal"}},
		},
		Brands: concat(coreBrands, italianBrands, europeanBrands, britishBrands,
			contemporaryBrands, knitwearBrands, otherBrands),
		Noise:      append([]string{}, defaultNoise...),
		MinItemLen: DefaultMinItemLen,
		MaxItemLen: DefaultMaxItemLen,
	})
}

// CategoryOrder is the display order per collection; categorization
// precedence follows the declared Categories order instead.
var CategoryOrder = map[string][]string{
	"summer": {"Bottoms", "Tops", "Footwear", "Outerwear", "Accessories", "Other"},
	"spring": {"Bottoms", "Tops", "Footwear", "Outerwear", "Accessories", "Suits", "Activewear", "Other"},
	"fw":     {"Bottoms", "Tops", "Footwear", "Outerwear", "Knitwear", "Suits", "Layering", "Accessories", "Other"},
	"fall":   {"Bottoms", "Tops", "Footwear", "Outerwear", "Knitwear", "Suits", "Layering", "Accessories", "Other"},
	"winter": {"Bottoms", "Tops", "Footwear", "Outerwear", "Knitwear", "Suits", "Layering", "Accessories", "Other"},
}

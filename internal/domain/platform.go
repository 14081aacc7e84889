package domain

// Platform representa una red social soportada
type Platform struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Gradient string `json:"gradient"`
	Icon     string `json:"icon"`
}

// Platform IDs del catálogo por defecto
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformTikTok    = "tiktok"
)

// Catalog es la tabla inmutable de plataformas.
// Se construye una vez al arrancar y se comparte por referencia.
type Catalog struct {
	platforms []Platform
	byID      map[string]int
}

// NewCatalog crea un catálogo a partir de una lista de plataformas.
// Los IDs duplicados conservan la primera entrada.
func NewCatalog(platforms ...Platform) *Catalog {
	c := &Catalog{
		platforms: make([]Platform, 0, len(platforms)),
		byID:      make(map[string]int, len(platforms)),
	}

	for _, p := range platforms {
		if _, exists := c.byID[p.ID]; exists {
			continue
		}
		c.byID[p.ID] = len(c.platforms)
		c.platforms = append(c.platforms, p)
	}

	return c
}

// DefaultCatalog retorna el catálogo con las seis plataformas soportadas
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Platform{ID: PlatformFacebook, Name: "Facebook", Color: "#1877F2", Gradient: "from-blue-600 to-blue-700", Icon: "facebook"},
		Platform{ID: PlatformInstagram, Name: "Instagram", Color: "#E4405F", Gradient: "from-pink-500 to-purple-600", Icon: "instagram"},
		Platform{ID: PlatformYouTube, Name: "YouTube", Color: "#FF0000", Gradient: "from-red-600 to-red-700", Icon: "youtube"},
		Platform{ID: PlatformTwitter, Name: "Twitter", Color: "#1DA1F2", Gradient: "from-sky-400 to-sky-500", Icon: "twitter"},
		Platform{ID: PlatformLinkedIn, Name: "LinkedIn", Color: "#0A66C2", Gradient: "from-blue-700 to-blue-800", Icon: "linkedin"},
		Platform{ID: PlatformTikTok, Name: "TikTok", Color: "#000000", Gradient: "from-gray-900 to-black", Icon: "tiktok"},
	)
}

// All retorna una copia de las plataformas en orden de catálogo
func (c *Catalog) All() []Platform {
	out := make([]Platform, len(c.platforms))
	copy(out, c.platforms)
	return out
}

// Lookup busca una plataforma por ID
func (c *Catalog) Lookup(id string) (Platform, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Platform{}, false
	}
	return c.platforms[idx], true
}

// First retorna la primera plataforma del catálogo (fallback de sync)
func (c *Catalog) First() Platform {
	if len(c.platforms) == 0 {
		return Platform{}
	}
	return c.platforms[0]
}

// Resolve busca una plataforma y cae en la primera si no existe
func (c *Catalog) Resolve(id string) Platform {
	if p, ok := c.Lookup(id); ok {
		return p
	}
	return c.First()
}

// Len retorna el número de plataformas
func (c *Catalog) Len() int {
	return len(c.platforms)
}

package entity

// TemplateID names a built-in document design
type TemplateID string

const (
	TemplateStandard  TemplateID = "standard"
	TemplateModern    TemplateID = "modern"
	TemplateMinimal   TemplateID = "minimal"
	TemplateBold      TemplateID = "bold"
	TemplateElegant   TemplateID = "elegant"
	TemplateTech      TemplateID = "tech"
	TemplatePlayful   TemplateID = "playful"
	TemplateEco       TemplateID = "eco"
	TemplateMidnight  TemplateID = "midnight"
	TemplateBrutalist TemplateID = "brutalist"
	TemplateVogue     TemplateID = "vogue"
	TemplateOrganic   TemplateID = "organic"
)

// FontFamily is a printable font choice
type FontFamily string

const (
	FontSans       FontFamily = "sans"
	FontSerif      FontFamily = "serif"
	FontMono       FontFamily = "mono"
	FontPlayfair   FontFamily = "playfair"
	FontMontserrat FontFamily = "montserrat"
	FontNoto       FontFamily = "noto"
	FontRobotoSlab FontFamily = "roboto-slab"
)

// ThemeConfig holds presentation settings for the printable document.
// Nothing here affects totals.
type ThemeConfig struct {
	PrimaryColor   string     `json:"primaryColor"`
	SecondaryColor string     `json:"secondaryColor"`
	PaperColor     string     `json:"paperColor"`
	FontFamily     FontFamily `json:"fontFamily"`
	BorderRadius   string     `json:"borderRadius"`  // none, small, medium, large, full
	HeaderLayout   string     `json:"headerLayout"`  // split, centered, banner, clean
	TableStyle     string     `json:"tableStyle"`    // minimal, bordered, striped, grid
	AccentAlpha    float64    `json:"accentAlpha"`
	ShowWatermark  bool       `json:"showWatermark"`
	PaperPadding   string     `json:"paperPadding"`  // compact, normal, wide
	LogoSize       float64    `json:"logoSize"`
	LogoOpacity    float64    `json:"logoOpacity"`
	LogoAlignment  string     `json:"logoAlignment"` // left, center, right
	LogoBlendMode  string     `json:"logoBlendMode"` // normal, multiply, screen
	InvertLogo     bool       `json:"invertLogo"`
	LogoPosX       float64    `json:"logoPosX"`
	LogoPosY       float64    `json:"logoPosY"`
}

func preset(primary, secondary, paper string, font FontFamily, radius, header, table string) ThemeConfig {
	return ThemeConfig{
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		PaperColor:     paper,
		FontFamily:     font,
		BorderRadius:   radius,
		HeaderLayout:   header,
		TableStyle:     table,
		AccentAlpha:    0.1,
		PaperPadding:   "normal",
		LogoSize:       80,
		LogoOpacity:    1,
		LogoAlignment:  "left",
		LogoBlendMode:  "normal",
	}
}

var themePresets = map[TemplateID]ThemeConfig{
	TemplateStandard:  preset("#4f46e5", "#1e293b", "#ffffff", FontSans, "medium", "split", "minimal"),
	TemplateModern:    preset("#0ea5e9", "#0f172a", "#ffffff", FontMontserrat, "large", "banner", "striped"),
	TemplateMinimal:   preset("#111827", "#6b7280", "#ffffff", FontSans, "none", "clean", "minimal"),
	TemplateBold:      preset("#dc2626", "#111827", "#ffffff", FontMontserrat, "small", "banner", "bordered"),
	TemplateElegant:   preset("#a16207", "#292524", "#fffbeb", FontPlayfair, "none", "centered", "minimal"),
	TemplateTech:      preset("#10b981", "#0f172a", "#f8fafc", FontMono, "small", "split", "grid"),
	TemplatePlayful:   preset("#ec4899", "#7c3aed", "#fff7fb", FontSans, "full", "centered", "striped"),
	TemplateEco:       preset("#15803d", "#365314", "#f7fee7", FontNoto, "large", "split", "striped"),
	TemplateMidnight:  preset("#818cf8", "#e2e8f0", "#0f172a", FontSans, "medium", "banner", "grid"),
	TemplateBrutalist: preset("#000000", "#facc15", "#ffffff", FontMono, "none", "clean", "bordered"),
	TemplateVogue:     preset("#be185d", "#18181b", "#fafafa", FontPlayfair, "none", "centered", "minimal"),
	TemplateOrganic:   preset("#92400e", "#44403c", "#fefce8", FontRobotoSlab, "large", "split", "striped"),
}

// ThemePreset returns the preset theme for a template id
func ThemePreset(id TemplateID) (ThemeConfig, bool) {
	t, ok := themePresets[id]
	return t, ok
}

// TemplateIDs lists the built-in templates in a stable order
func TemplateIDs() []TemplateID {
	return []TemplateID{
		TemplateStandard, TemplateModern, TemplateMinimal, TemplateBold,
		TemplateElegant, TemplateTech, TemplatePlayful, TemplateEco,
		TemplateMidnight, TemplateBrutalist, TemplateVogue, TemplateOrganic,
	}
}

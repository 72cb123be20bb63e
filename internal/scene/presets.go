package scene

// DefaultPresets returns the built-in historical scenes in display order.
func DefaultPresets() []Preset {
	return []Preset{
		{
			ID:             "vikings",
			Name:           "Viking Warrior",
			Description:    "Brave the icy fjords as a legendary Norse warrior.",
			Era:            "800 AD",
			PromptModifier: "Transform this person into a fierce Viking warrior wearing fur and leather armor, standing on the deck of a longship in a misty fjord. High quality, cinematic lighting, historical drama.",
			Thumbnail:      "https://picsum.photos/id/1015/300/200",
		},
		{
			ID:             "egypt",
			Name:           "Pharaoh of Egypt",
			Description:    "Rule the Nile from the golden throne of ancient Thebes.",
			Era:            "1300 BC",
			PromptModifier: "Transform this person into an Ancient Egyptian Pharaoh wearing gold jewelry, a nemes headdress, and fine linen, standing inside a grand temple with hieroglyphs. Golden lighting, opulent atmosphere.",
			Thumbnail:      "https://picsum.photos/id/1040/300/200",
		},
		{
			ID:             "victorian",
			Name:           "Victorian Aristocrat",
			Description:    "Walk the foggy streets of London in high society fashion.",
			Era:            "1890",
			PromptModifier: "Transform this person into a Victorian aristocrat wearing a formal suit or elegant gown, top hat or bonnet, standing on a cobblestone street in London with gas lamps and fog. Sepia tones, vintage photography style.",
			Thumbnail:      "https://picsum.photos/id/1060/300/200",
		},
		{
			ID:             "cyberpunk",
			Name:           "Neon Future",
			Description:    "Visit the year 2077 in a high-tech metropolis.",
			Era:            "2077",
			PromptModifier: "Transform this person into a cyberpunk character with glowing tech implants, wearing futuristic streetwear, standing in a neon-lit rainy city street at night. Cyberpunk aesthetic, neon blue and pink lighting.",
			Thumbnail:      "https://picsum.photos/id/1029/300/200",
		},
		{
			ID:             "roaring20s",
			Name:           "Roaring 20s",
			Description:    "Join the party at a glamorous Gatsby-style gala.",
			Era:            "1920",
			PromptModifier: "Transform this person into a 1920s flapper or gentleman wearing a tuxedo or beaded dress, holding a glass of champagne at an art deco party. Black and white photography style, high contrast, glamorous.",
			Thumbnail:      "https://picsum.photos/id/1011/300/200",
		},
		{
			ID:             "samurai",
			Name:           "Feudal Samurai",
			Description:    "Defend your honor in the cherry blossom gardens of Kyoto.",
			Era:            "1600",
			PromptModifier: "Transform this person into a Japanese Samurai wearing detailed heavy armor, katana at hip, standing in a garden with falling cherry blossoms. Traditional Japanese art style influence, serene yet powerful.",
			Thumbnail:      "https://picsum.photos/id/1018/300/200",
		},
	}
}

package discovery

// Section headings as the home feed renders them. Featured is orthogonal to
// category, so an event can appear in Featured and its category section at
// the same time.
const (
	SectionFeatured    = "Featured Events"
	SectionFree        = "Free Events"
	SectionServices    = "Service Events"
	SectionMarketplace = "Marketplace Events"
	SectionGigs        = "Gigs & Odd Jobs"
	SectionPaid        = "Paid Events"
)

// SectionOrder is the fixed display order of the feed sections.
var SectionOrder = []string{
	SectionFeatured,
	SectionFree,
	SectionServices,
	SectionMarketplace,
	SectionGigs,
	SectionPaid,
}

// featuredLikeThreshold promotes well-liked events into the Featured section.
const featuredLikeThreshold = 10

// Sectionize groups an already-geofenced result set into the fixed feed
// sections. Every section is present in the map even when empty — whether an
// empty section renders as hidden or as an explicit "no events" state is the
// presentation layer's call, not ours.
func Sectionize(annotated []AnnotatedEvent) map[string][]AnnotatedEvent {
	sections := make(map[string][]AnnotatedEvent, len(SectionOrder))
	for _, name := range SectionOrder {
		sections[name] = []AnnotatedEvent{}
	}

	for _, a := range annotated {
		if a.LikesCount() >= featuredLikeThreshold {
			sections[SectionFeatured] = append(sections[SectionFeatured], a)
		}
		switch a.Category {
		case CategoryFree:
			sections[SectionFree] = append(sections[SectionFree], a)
		case CategoryServices:
			sections[SectionServices] = append(sections[SectionServices], a)
		case CategoryMarketplace:
			sections[SectionMarketplace] = append(sections[SectionMarketplace], a)
		case CategoryGigs:
			sections[SectionGigs] = append(sections[SectionGigs], a)
		case CategoryPaid:
			sections[SectionPaid] = append(sections[SectionPaid], a)
		}
	}
	return sections
}

package templates

import (
	"strings"
)

// DefaultIndustry keys the fallback template.
const DefaultIndustry = "default"

var (
	baseNavigation = nav("Home", "/", "About", "/about", "Services", "/services", "Contact", "/contact")
	baseFooter     = nav("About", "/about", "Services", "/services", "Contact", "/contact", "Privacy policy", "/privacy")
)

func brandOf(in TemplateInput) string {
	return strings.TrimSpace(in.BrandName)
}

// Variants returns a fresh instance of every built-in template, default first.
func Variants() []SiteTemplate {
	return []SiteTemplate{
		defaultTemplate(),
		&variant{
			id: "tech", name: "Tech Template", industry: "tech", version: 1,
			navigation: nav("Home", "/", "Products", "/products", "About", "/about", "Contact", "/contact"),
			footer:     nav("About", "/about", "Products", "/products", "Contact", "/contact", "Privacy policy", "/privacy"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, "Welcome to "+brandOf(in), "Innovative technology for your business"),
					services(2, "What we offer", "",
						item{"Fast", "Instant response and high performance"},
						item{"Reliable", "Proven solutions that keep running"},
						item{"Modern", "Current technology and innovation"},
					),
					about(in, 3),
					contact(4),
				}
			},
		},
		&variant{
			id: "retail", name: "Retail Template", industry: "retail", version: 1,
			navigation: nav("Home", "/", "Catalog", "/catalog", "About", "/about", "Contact", "/contact"),
			footer:     nav("About", "/about", "Catalog", "/catalog", "Contact", "/contact", "Shipping and payment", "/shipping", "Privacy policy", "/privacy"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, "Welcome to "+brandOf(in), "A wide range of quality products"),
					services(2, "Our products", "Browse our catalog",
						item{"Quality", "Only tested products"},
						item{"Value", "Competitive prices"},
						item{"Service", "Fast delivery and support"},
					),
					about(in, 3),
					contact(4),
				}
			},
		},
		&variant{
			id: "healthcare", name: "Healthcare Template", industry: "healthcare", version: 1,
			navigation: nav("Home", "/", "Services", "/services", "About", "/about", "Contact", "/contact"),
			footer:     nav("About", "/about", "Services", "/services", "Contact", "/contact", "Book an appointment", "/appointment", "Privacy policy", "/privacy"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, "Welcome to "+brandOf(in), "Your health is our priority"),
					services(2, "Our services", "",
						item{"Expertise", "Experienced specialists"},
						item{"Care", "A personal approach"},
						item{"Technology", "Modern equipment"},
					),
					about(in, 3),
					contact(4),
				}
			},
		},
		&variant{
			id: "education", name: "Education Template", industry: "education", version: 1,
			navigation: nav("Home", "/", "Programs", "/programs", "Teachers", "/team", "Reviews", "/reviews", "Contact", "/contact"),
			footer:     nav("Programs", "/programs", "Pricing", "/pricing", "FAQ", "/faq", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, "Learn with "+brandOf(in), "Short programs, clear results, support at every step"),
					services(2, "Popular programs", "Pick a format and start learning today",
						item{"Intensive", "A quick start in 2 to 4 weeks"},
						item{"Career track", "An in-depth program over 2 to 6 months"},
						item{"Mentoring", "A personal plan with regular feedback"},
					),
					custom(3, "Why students choose us", "Method, practice and mentors so you actually apply what you learn.",
						"Leave a request and we will help you pick a program for your goal."),
					about(in, 4),
					contact(5),
				}
			},
		},
		&variant{
			id: "finance", name: "Finance Template", industry: "finance", version: 1,
			navigation: nav("Home", "/", "Solutions", "/solutions", "Cases", "/cases", "Pricing", "/pricing", "Contact", "/contact"),
			footer:     nav("Policy", "/privacy", "Documents", "/docs", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, brandOf(in)+": finances under control", "Transparency, security and clear reporting"),
					custom(2, "Reliability", "We follow standards, protect data and work under contract.",
						"Request a consultation and we will show where costs can be optimised this month."),
					services(3, "Solutions", "Choose what matters for your business",
						item{"Accounting and reporting", "Regular reporting and KPI control"},
						item{"Planning", "Budgeting and cash flow forecasting"},
						item{"Risk management", "Risk control and compliance"},
					),
					custom(4, "How we work", "Analysis, plan, rollout, support. Everything measured in numbers.", ""),
					contact(5),
				}
			},
		},
		&variant{
			id: "real-estate", name: "Real Estate Template", industry: "real-estate", version: 1,
			navigation: nav("Home", "/", "Listings", "/listings", "Terms", "/terms", "About", "/about", "Contact", "/contact"),
			footer:     nav("Listings", "/listings", "Mortgage", "/mortgage", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, "Find your home with "+brandOf(in), "Search, viewings and deal support end to end"),
					services(2, "Popular categories", "Pick a direction and we will find options",
						item{"Apartments", "New builds and resale"},
						item{"Houses", "Cottages, townhouses and land"},
						item{"Commercial", "Offices, warehouses and retail space"},
					),
					custom(3, "Deal support", "Document checks, negotiation, deal preparation and safe settlement.",
						"Leave a request and we will call to clarify your criteria."),
					about(in, 4),
					contact(5),
				}
			},
		},
		&variant{
			id: "restaurant", name: "Restaurant Template", industry: "restaurant", version: 1,
			navigation: nav("Home", "/", "Menu", "/menu", "Booking", "/booking", "About", "/about", "Contact", "/contact"),
			footer:     nav("Menu", "/menu", "Delivery", "/delivery", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, brandOf(in)+": tasty moments", "Fresh produce, signature dishes and a cosy atmosphere"),
					services(2, "Menu highlights", "What guests order most",
						item{"Breakfast", "Quick, tasty and made with care"},
						item{"Main courses", "Seasonal pairings and classics"},
						item{"Desserts", "The perfect end to the evening"},
					),
					custom(3, "Booking", "Reserve a table in advance and we will confirm the time.",
						"Want delivery? Message us for the details."),
					about(in, 4),
					contact(5),
				}
			},
		},
		&variant{
			id: "beauty", name: "Beauty Template", industry: "beauty", version: 1,
			navigation: nav("Home", "/", "Services", "/services", "Stylists", "/team", "Booking", "/booking", "Contact", "/contact"),
			footer:     nav("Booking", "/booking", "Services", "/services", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, "Beauty with "+brandOf(in), "Care, style and comfort in one place"),
					services(2, "Services", "Find the treatment that suits you",
						item{"Cut and styling", "We bring out your style"},
						item{"Manicure", "Neat and long lasting"},
						item{"Care", "Spa and recovery"},
					),
					custom(3, "Offers", "A discount for new clients and gift certificates.", "Book online and we will confirm the time."),
					custom(4, "Reviews", "Clients trust us for quality and service.", "Book online and we will confirm the time."),
					contact(5),
				}
			},
		},
		&variant{
			id: "sports", name: "Sports Template", industry: "sports", version: 1,
			navigation: nav("Home", "/", "Training", "/training", "Schedule", "/schedule", "Plans", "/plans", "Contact", "/contact"),
			footer:     nav("Schedule", "/schedule", "Plans", "/plans", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, brandOf(in)+": train with joy", "Group classes, personal training and visible progress"),
					services(2, "Memberships", "Choose a format that fits",
						item{"Start", "For beginners"},
						item{"Pro", "Regular training 3 to 4 times a week"},
						item{"Personal", "An individual program with coaching"},
					),
					custom(3, "Training", "Strength, functional, stretching and cardio for your goal.",
						"Book a trial session and we will match the load to you."),
					custom(4, "Results", "Progress tracking, measurements and coach support so you keep going.", ""),
					contact(5),
				}
			},
		},
		&variant{
			id: "art", name: "Art Template", industry: "art", version: 1,
			navigation: nav("Home", "/", "Portfolio", "/portfolio", "Services", "/services", "Process", "/process", "Contact", "/contact"),
			footer:     nav("Portfolio", "/portfolio", "Brief", "/brief", "Contact", "/contact"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, brandOf(in)+": design that works", "Ideas, visual style and clear communication"),
					custom(2, "Portfolio", "Selected work: branding, websites, illustration.",
						"Want a similar style? Write to us and we will discuss the task."),
					services(3, "Services", "What we do best",
						item{"Branding", "Logo, identity and guidelines"},
						item{"Web design", "Sites, landing pages and design systems"},
						item{"Graphics", "Illustration, presentations and packaging"},
					),
					custom(4, "Process", "Brief, concept, design, revisions, delivery. Transparent and staged.", ""),
					contact(5),
				}
			},
		},
		&variant{
			id: "consulting", name: "Consulting Template", industry: "consulting", version: 1,
			navigation: nav("Home", "/", "Services", "/services", "Cases", "/cases", "Team", "/team", "Contact", "/contact"),
			footer:     nav("Cases", "/cases", "Contact", "/contact", "Policy", "/privacy"),
			sections: func(in TemplateInput) []sectionSpec {
				return []sectionSpec{
					hero(in, brandOf(in)+": consulting for growth", "Strategy, process and delivery without excess theory"),
					services(2, "How we help", "Focused on results and measurable change",
						item{"Strategy", "Goals, positioning and a roadmap"},
						item{"Operations", "Processes, roles, KPIs and playbooks"},
						item{"Delivery", "Change support and result tracking"},
					),
					custom(3, "Cases", "A few examples: higher conversion, lower costs, faster processes.",
						"Tell us about your task and we will propose 2 or 3 options."),
					custom(4, "A 30 day plan", "Diagnosis, plan, quick wins, metrics. We move in iterations.", ""),
					contact(5),
				}
			},
		},
	}
}

func defaultTemplate() *variant {
	return &variant{
		id: DefaultIndustry, name: "Default Template", industry: DefaultIndustry, version: 1,
		navigation: baseNavigation,
		footer:     baseFooter,
		sections: func(in TemplateInput) []sectionSpec {
			return []sectionSpec{hero(in, "", ""), about(in, 2), contact(3)}
		},
	}
}

package employee

var firstNames = []string{
	"Sydney", "Lisa", "Kassandra", "Jerald", "Kylee", "Myrtis", "Dayna", "Paul",
	"Ilene", "Eliza", "Edwin", "Major", "Kyle", "Nora", "Cydney", "Isaiah",
	"Bettye", "Albin", "Ali", "Delores", "Travis", "Theodore", "Jayden", "Oswald",
	"Curtis", "Constance", "Hilma", "Stefanie", "Chadrick", "Niko",
}

var lastNames = []string{
	"Pfeffer", "Faraney", "Wolf", "Smitham", "White", "Walsh", "Padberg", "Koelpin",
	"Kassulke", "Pollich", "Hauck", "Bauch", "Schaefer", "Nolan", "Green", "Mayer",
	"Feeney", "Friesen", "Stamm", "Considine", "Fritsch", "Hintz", "Roob", "Runte",
	"Schaefer", "Daugherty", "Schowalter", "Balistreri", "Rowe", "Grady",
}

var titles = []string{
	"Global Integration Manager",
	"Senior Implementation Assistant",
	"Legacy Creative Agent",
	"Global Security Designer",
	"Chief Directives Specialist",
	"Senior Solutions Liaison",
	"Lead Mobility Strategist",
	"District Functionality Coordinator",
	"Regional Infrastructure Developer",
	"Legacy Creative Associate",
	"District Applications Architect",
	"Human Quality Associate",
	"Customer Division Administrator",
	"Lead Infrastructure Agent",
	"Principal Data Developer",
	"Dynamic Research Manager",
	"Chief Accountability Architect",
	"Product Infrastructure Director",
	"Customer Experience Consultant",
	"Lead Assurance Strategist",
	"Product Metrics Coordinator",
	"Marketing Functionality Engineer",
	"Senior Markets Director",
	"Lead Assurance Analyst",
	"Principal Implementation Analyst",
	"Customer Operations Planner",
	"Strategic Infrastructure Partner",
}

var domains = []string{"hotmail.com", "gmail.com", "outlook.com", "proton.me", "example.com"}

var sites = []string{
	"tight-white.biz", "calm-den.name", "lavish-supernatural.biz",
	"noxious-concept.net", "jittery-mascara.info", "ugly-quartet.info",
}

var managerPool = []Manager{
	{Name: "Clementine Gerlach", Avatar: "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
	{Name: "Shanelle Goyette", Avatar: "https://images.unsplash.com/photo-1531123897727-8f129e1688ce"},
	{Name: "Zetta Stokes", Avatar: "https://images.unsplash.com/photo-1534528741775-53994a69daeb"},
	{Name: "Cornelius Tremblay", Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e"},
	{Name: "Christina Stamm", Avatar: "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
	{Name: "Akeem Considine", Avatar: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab"},
	{Name: "Travis Fritsch", Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e"},
	{Name: "Mattie Hintz", Avatar: "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
	{Name: "Zoe Roob", Avatar: "https://images.unsplash.com/photo-1531123897727-8f129e1688ce"},
	{Name: "Norbert Runte", Avatar: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab"},
	{Name: "Victoria Schaefer", Avatar: "https://images.unsplash.com/photo-1494790108377-be9c29b29330"},
	{Name: "Mac Daugherty", Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e"},
}

var performancePalettes = []string{"#61b2c7", "#d7825f", "#7db05a", "#5b7fd1", "#d1668f"}

var tagPool = []string{
	"Remote", "Onsite", "Contractor", "Full-time", "Mentor",
	"New hire", "Lead", "On call", "Part-time", "Travel",
}

package generator

var cityPool = []string{
	"Mumbai", "Chennai", "Kolkata", "Delhi", "Bengaluru", "Hyderabad",
	"Jaipur", "Lucknow", "Ahmedabad", "Pune", "Kochi", "Indore",
	"Guwahati", "Nagpur", "Ranchi", "Dharamsala",
}

var brandPool = []string{
	"Strikers", "Titans", "Falcons", "Monarchs", "Cyclones", "Panthers",
	"Mavericks", "Rhinos", "Comets", "Tuskers", "Warriors", "Chargers",
	"Hawks", "Stallions", "Blazers", "Sentinels",
}

var venueSuffixes = []string{"Oval", "Cricket Ground", "Stadium", "Arena"}

// reservedNames lists franchise names that belong to real leagues.
var reservedNames = map[string]struct{}{
	"Mumbai Indians":              {},
	"Chennai Super Kings":         {},
	"Kolkata Knight Riders":       {},
	"Delhi Capitals":              {},
	"Delhi Daredevils":            {},
	"Royal Challengers Bengaluru": {},
	"Sunrisers Hyderabad":         {},
	"Rajasthan Royals":            {},
	"Lucknow Super Giants":        {},
	"Gujarat Titans":              {},
	"Punjab Kings":                {},
	"Deccan Chargers":             {},
	"Kochi Tuskers":               {},
	"Kochi Tuskers Kerala":        {},
	"Pune Warriors":               {},
	"Hyderabad Chargers":          {},
	"Ahmedabad Titans":            {},
}

var palette = [][2]string{
	{"#0B3D91", "#F2A900"},
	{"#F9CD05", "#1C3F94"},
	{"#3A225D", "#B3A123"},
	{"#17479E", "#EF1B23"},
	{"#D71920", "#000000"},
	{"#FF822A", "#000000"},
	{"#EA1A85", "#254AA5"},
	{"#00AEEF", "#F15A29"},
	{"#1B2133", "#C9A84C"},
	{"#ED1B24", "#DCDDDF"},
	{"#2E8B57", "#F5F5DC"},
	{"#4B0082", "#FFD700"},
	{"#008080", "#FF7F50"},
	{"#800000", "#F0E68C"},
	{"#2F4F4F", "#ADFF2F"},
	{"#191970", "#FF4500"},
}

var overseasCountries = []string{"AUS", "ENG", "NZL", "RSA", "WIN", "SRL", "AFG", "BAN"}

var domesticFirstNames = []string{
	"Aarav", "Vivaan", "Aditya", "Arjun", "Reyansh", "Kabir", "Ishaan", "Rohan",
	"Siddharth", "Pranav", "Dhruv", "Karthik", "Nikhil", "Varun", "Yash", "Harsh",
	"Tanmay", "Abhinav", "Manav", "Rahul", "Sameer", "Akash", "Devansh", "Parth",
}

var domesticLastNames = []string{
	"Sharma", "Verma", "Iyer", "Nair", "Reddy", "Patel", "Kulkarni", "Chauhan",
	"Menon", "Desai", "Bose", "Rathore", "Pillai", "Saxena", "Joshi", "Bhatt",
	"Gill", "Rana", "Yadav", "Thakur", "Pandey", "Mishra", "Shetty", "Kapoor",
}

var overseasFirstNames = []string{
	"Liam", "Oliver", "Jack", "Harry", "Noah", "Mitchell", "Corey", "Dwayne",
	"Kane", "Quinton", "Aiden", "Marcus", "Dinesh", "Kusal", "Rashid", "Shakib",
	"Tom", "Ben", "Callum", "Jason", "Keshav", "Nathan", "Reece", "Sam",
}

var overseasLastNames = []string{
	"Walker", "Hughes", "Fletcher", "Brooks", "Carter", "Dawson", "Ellison", "Foster",
	"Grant", "Hollis", "Irving", "Jennings", "Kendall", "Lowe", "Marsden", "Norris",
	"Osborne", "Prescott", "Quayle", "Radford", "Stanton", "Thorne", "Upton", "Vance",
}

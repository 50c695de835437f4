package seed

type productSeed struct {
	name        string
	description string
	price       float64
	brand       string
	typ         string
	picture     string
}

var roleNames = []string{"Admin", "Member"}

var brandNames = []string{"Angular", "NetCore", "VS Code", "React", "Typescript", "Redis"}

var typeNames = []string{"Boards", "Hats", "Boots", "Gloves"}

var products = []productSeed{
	{"Angular Speedster Board 2000", "Lorem ipsum dolor sit amet, consectetuer adipiscing elit.", 200, "Angular", "Boards", "images/products/sb-ang1.png"},
	{"Green Angular Board 3000", "Nunc viverra imperdiet enim. Fusce est. Vivamus a tellus.", 150, "Angular", "Boards", "images/products/sb-ang2.png"},
	{"Core Board Speed Rush 3", "Suspendisse dui purus, scelerisque at, vulputate vitae, pretium mattis, nunc.", 180, "NetCore", "Boards", "images/products/sb-core1.png"},
	{"Net Core Super Board", "Pellentesque habitant morbi tristique senectus et netus et malesuada fames.", 300, "NetCore", "Boards", "images/products/sb-core2.png"},
	{"React Board Super Whizzy Fast", "Lorem ipsum dolor sit amet, consectetuer adipiscing elit.", 250, "React", "Boards", "images/products/sb-react1.png"},
	{"Typescript Entry Board", "Aenean nec lorem. In porttitor. Donec laoreet nonummy augue.", 120, "Typescript", "Boards", "images/products/sb-ts1.png"},
	{"Core Blue Hat", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 10, "NetCore", "Hats", "images/products/hat-core1.png"},
	{"Green React Woolen Hat", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 8, "React", "Hats", "images/products/hat-react1.png"},
	{"Purple React Woolen Hat", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 15, "React", "Hats", "images/products/hat-react2.png"},
	{"Blue Code Gloves", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 18, "VS Code", "Gloves", "images/products/glove-code1.png"},
	{"Green Code Gloves", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 15, "VS Code", "Gloves", "images/products/glove-code2.png"},
	{"Purple React Gloves", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 16, "React", "Gloves", "images/products/glove-react1.png"},
	{"Green React Gloves", "Fusce posuere, magna sed pulvinar ultricies, purus lectus malesuada libero.", 14, "React", "Gloves", "images/products/glove-react2.png"},
	{"Redis Red Boots", "Suspendisse dui purus, scelerisque at, vulputate vitae, pretium mattis, nunc.", 250, "Redis", "Boots", "images/products/boot-redis1.png"},
	{"Core Red Boots", "Suspendisse dui purus, scelerisque at, vulputate vitae, pretium mattis, nunc.", 189.99, "NetCore", "Boots", "images/products/boot-core2.png"},
	{"Core Purple Boots", "Suspendisse dui purus, scelerisque at, vulputate vitae, pretium mattis, nunc.", 199.99, "NetCore", "Boots", "images/products/boot-core1.png"},
	{"Angular Purple Boots", "Aenean nec lorem. In porttitor. Donec laoreet nonummy augue.", 150, "Angular", "Boots", "images/products/boot-ang2.png"},
	{"Angular Blue Boots", "Suspendisse dui purus, scelerisque at, vulputate vitae, pretium mattis, nunc.", 180, "Angular", "Boots", "images/products/boot-ang1.png"},
}

package seeders

import (
	"gorm.io/gorm"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/auth"
)

func init() {
	Register("catalog", SeedCatalog)
	Register("admin", SeedAdmin)
}

type seedReview struct {
	Author  string
	Rating  int
	Comment string
}

type seedProduct struct {
	Name        string
	Description string
	Price       float64
	Images      []string
	Category    string
	Stock       int
	Reviews     []seedReview
}

var (
	reviewSatisfied = seedReview{Author: "Cliente Satisfeito", Rating: 5, Comment: "Excelente produto, superou as minhas expectativas!"}
	reviewAna       = seedReview{Author: "Ana P.", Rating: 4, Comment: "Muito bom, mas a entrega demorou um pouco."}
)

var seedCatalog = []seedProduct{
	{
		Name: "Smartphone X Pro", Description: "O mais recente smartphone com câmara tripla e ecrã OLED.",
		Price: 250000, Images: []string{"https://picsum.photos/seed/phone1/600/500"}, Category: "Smartphones", Stock: 15,
		Reviews: []seedReview{reviewSatisfied, {Author: "Carlos M.", Rating: 5, Comment: "Câmera incrível e design moderno. Recomendo!"}},
	},
	{
		Name: "Laptop Gamer Z", Description: "Performance extrema para jogos e trabalho pesado. Placa gráfica dedicada.",
		Price: 750000, Images: []string{"https://picsum.photos/seed/laptop1/600/500"}, Category: "Laptops", Stock: 8,
		Reviews: []seedReview{reviewAna},
	},
	{
		Name: "Auriculares BT MaxSound", Description: "Som imersivo com cancelamento de ruído e bateria de longa duração.",
		Price: 45000, Images: []string{"https://picsum.photos/seed/headphones1/600/500"}, Category: "Audio", Stock: 30,
		Reviews: []seedReview{{Author: "DJ Kapiro", Rating: 5, Comment: "Qualidade de som profissional!"}},
	},
	{
		Name: "Smart TV 4K 55\"", Description: "Ecrã gigante com resolução 4K Ultra HD e funcionalidades Smart.",
		Price: 450000, Images: []string{"https://picsum.photos/seed/tv1/600/500"}, Category: "TVs", Stock: 12,
	},
	{
		Name: "Carregador Rápido USB-C", Description: "Carregue os seus dispositivos rapidamente com este carregador de 65W.",
		Price: 15000, Images: []string{"https://picsum.photos/seed/charger1/600/500"}, Category: "Acessórios", Stock: 50,
		Reviews: []seedReview{reviewSatisfied},
	},
	{
		Name: "Teclado Mecânico RGB", Description: "Experiência de digitação superior com iluminação RGB personalizável.",
		Price: 35000, Images: []string{"https://picsum.photos/seed/keyboard1/600/500"}, Category: "Acessórios", Stock: 25,
	},
	{
		Name: "Webcam HD Pro", Description: "Vídeo chamadas nítidas com resolução Full HD e microfone integrado.",
		Price: 25000, Images: []string{"https://picsum.photos/seed/webcam1/600/500"}, Category: "Acessórios", Stock: 20,
	},
	{
		Name: "Powerbank 20000mAh", Description: "Nunca fique sem bateria com esta powerbank de alta capacidade.",
		Price: 20000, Images: []string{"https://picsum.photos/seed/powerbank1/600/500"}, Category: "Acessórios", Stock: 40,
	},
	{
		Name: "Rato Sem Fio Ergonómico", Description: "Conforto e precisão para longas horas de uso.",
		Price: 18000, Images: []string{"https://picsum.photos/seed/mouse1/600/500"}, Category: "Acessórios", Stock: 35,
	},
	{
		Name: "Tablet Avançado 10\"", Description: "Ecrã vibrante e performance rápida para entretenimento e produtividade.",
		Price: 180000, Images: []string{"https://picsum.photos/seed/tablet1/600/500"}, Category: "Smartphones", Stock: 10,
		Reviews: []seedReview{reviewAna},
	},
	{
		Name: "Coluna Bluetooth Portátil", Description: "Leve a sua música para qualquer lugar com som potente.",
		Price: 30000, Images: []string{"https://picsum.photos/seed/speaker1/600/500"}, Category: "Audio", Stock: 22,
	},
	{
		Name: "Monitor Curvo 27\"", Description: "Imersão total com este monitor curvo para trabalho ou jogos.",
		Price: 220000, Images: []string{"https://picsum.photos/seed/monitor1/600/500"}, Category: "TVs", Stock: 9,
	},
	{
		Name:        "Xiaomi Mijia Electric Shaver S500",
		Description: "Desfrute de um barbear suave e preciso com a máquina de barbear elétrica Xiaomi Mijia S500. Com lâminas flutuantes 360°, motor potente, ecrã LED e carregamento USB-C. Totalmente lavável para fácil limpeza.",
		Price:       60000,
		Images: []string{
			"https://m.media-amazon.com/images/I/61Z3rlLqc9L._AC_SL1500_.jpg",
			"https://m.media-amazon.com/images/I/71N4A8h+qNL._AC_SL1500_.jpg",
			"https://m.media-amazon.com/images/I/61yGgY6pGCL._AC_SL1500_.jpg",
			"https://m.media-amazon.com/images/I/71-Vq05cKOL._AC_SL1500_.jpg",
			"https://m.media-amazon.com/images/I/71s0X4qgqgL._AC_SL1500_.jpg",
			"https://m.media-amazon.com/images/I/61PjO20tqWL._AC_SL1500_.jpg",
		},
		Category: "Cuidados Pessoais", Stock: 20,
		Reviews: []seedReview{
			{Author: "Pedro G.", Rating: 5, Comment: "Excelente máquina de barbear, muito suave e eficiente. A bateria dura bastante."},
			{Author: "Sofia A.", Rating: 4, Comment: "Boa qualidade, mas um pouco cara. Funciona bem."},
		},
	},
}

// SeedCatalog inserts the launch catalogue. Idempotent: it does
// nothing when products already exist.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, sp := range seedCatalog {
		product := models.Product{
			Name:        sp.Name,
			Description: sp.Description,
			Price:       sp.Price,
			Category:    sp.Category,
			Stock:       sp.Stock,
			Images:      sp.Images,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		for _, sr := range sp.Reviews {
			review := models.Review{
				ProductID: product.ID,
				Author:    sr.Author,
				Rating:    sr.Rating,
				Comment:   sr.Comment,
			}
			if err := db.Create(&review).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedAdmin creates the default admin account when none exists.
// The password must be rotated on first login in any real deployment.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin12345")
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrador",
		Email:    "admin@angotech.ao",
		Password: hash,
		Role:     models.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// 手动填充演示数据脚本
//
// 创建一个演示教师账号和一门带课时的示例课程，便于本地联调前端。
// 重复执行是安全的：已存在的演示账号会被跳过。
//
// 用法: go run scripts/seed_demo.go
package main

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"codementor_backend/pkg/database"
	"codementor_backend/pkg/logger"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var existing model.User
	err = db.Where("email = ?", "demo-teacher@example.com").First(&existing).Error
	if err == nil {
		log.Println("演示账号已存在，跳过")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("查询演示账号失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("生成密码失败: %v", err)
	}
	teacher := &model.User{
		Name:     "Demo Teacher",
		Email:    "demo-teacher@example.com",
		Password: string(hashed),
		Role:     model.Teacher,
	}
	if err := db.Create(teacher).Error; err != nil {
		log.Fatalf("创建演示账号失败: %v", err)
	}

	course := &model.Course{
		Title:       "Intro to JavaScript",
		Description: "A short demo course used for local development.",
		Language:    "javascript",
		Difficulty:  "beginner",
		AuthorID:    teacher.ID,
		Published:   true,
		Lessons: []model.Lesson{
			{Title: "Variables and Types", Content: "# Variables\n\nlet, const and var.", Order: 0, XPReward: 10, IsPublished: true},
			{Title: "Control Flow", Content: "# Control Flow\n\nif, for and switch.", Order: 1, XPReward: 10, IsPublished: true},
		},
	}
	if err := db.Create(course).Error; err != nil {
		log.Fatalf("创建示例课程失败: %v", err)
	}

	log.Println("演示数据填充完成")
}

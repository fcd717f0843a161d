package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"attendhub/internal/model"
)

type seedUser struct {
	user     model.User
	password string
}

// Demo roster for local development. Passwords are bcrypt-hashed at seed
// time; nothing plaintext reaches the database.
var seedUsers = []seedUser{
	{
		user: model.User{
			ID: "admin-1", Username: "admin", Email: "admin@company.com",
			FullName: "System Administrator", Role: model.RoleAdmin,
			Department: "IT", Position: "System Admin", JoinDate: "2024-01-01",
			EmployeeID: "EMP001", IsActive: true,
		},
		password: "admin123",
	},
	{
		user: model.User{
			ID: "student-1", Username: "sangavi", Email: "sangavi@school.edu",
			FullName: "Sangavi Kumar", Role: model.RoleStudent,
			Department: "Computer Science", Position: "Student", JoinDate: "2024-02-15",
			EmployeeID: "STU002", IsActive: true,
		},
		password: "sangavi123",
	},
	{
		user: model.User{
			ID: "student-2", Username: "yuvaraj", Email: "yuvaraj.student@school.edu",
			FullName: "Yuvaraj Singh", Role: model.RoleStudent,
			Department: "Computer Science", Position: "Student", JoinDate: "2024-02-20",
			EmployeeID: "STU003", IsActive: true,
		},
		password: "yuvaraj123",
	},
	{
		user: model.User{
			ID: "teacher-1", Username: "dr.sharma", Email: "sharma@school.edu",
			FullName: "Dr. Rajesh Sharma", Role: model.RoleTeacher,
			Department: "Computer Science", Position: "Professor", JoinDate: "2020-01-15",
			EmployeeID: "TCH001", IsActive: true,
		},
		password: "sharma123",
	},
	{
		user: model.User{
			ID: "teacher-2", Username: "prof.patel", Email: "patel@school.edu",
			FullName: "Prof. Priya Patel", Role: model.RoleTeacher,
			Department: "Computer Science", Position: "Associate Professor", JoinDate: "2021-03-10",
			EmployeeID: "TCH002", IsActive: true,
		},
		password: "patel123",
	},
	{
		user: model.User{
			ID: "teacher-3", Username: "dr.kumar", Email: "kumar@school.edu",
			FullName: "Dr. Amit Kumar", Role: model.RoleTeacher,
			Department: "Mathematics", Position: "Professor", JoinDate: "2019-08-20",
			EmployeeID: "TCH003", IsActive: true,
		},
		password: "kumar123",
	},
	{
		user: model.User{
			ID: "teacher-4", Username: "ms.singh", Email: "singh@school.edu",
			FullName: "Ms. Neha Singh", Role: model.RoleTeacher,
			Department: "Physics", Position: "Assistant Professor", JoinDate: "2022-01-05",
			EmployeeID: "TCH004", IsActive: true,
		},
		password: "singh123",
	},
}

// Seed inserts the demo roster, skipping usernames that already exist.
func Seed(ctx context.Context, dir Directory) error {
	for _, s := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", s.user.Username, err)
		}
		if err := dir.Insert(ctx, s.user, string(hash)); err != nil {
			return fmt.Errorf("seed user %s: %w", s.user.Username, err)
		}
	}
	return nil
}

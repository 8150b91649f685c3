package routes

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weroambags/weroambags-backend-go/handlers"
	custommw "github.com/weroambags/weroambags-backend-go/middleware"
	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

// Handlers bundles everything SetupRoutes wires in.
type Handlers struct {
	Bags     *handlers.BagHandler
	Blogs    *handlers.BlogHandler
	Contacts *handlers.ContactHandler
	Orders   *handlers.OrderHandler
	Users    *handlers.UserHandler
	Auth     *custommw.Auth
	Metrics  *custommw.Metrics

	// PublicDir is mounted for direct access to locally buffered images.
	PublicDir string
}

// SetupRoutes mounts the versioned API, the static image mount, metrics and
// the catch-all 404.
func SetupRoutes(e *echo.Echo, h *Handlers) {
	if h.Metrics != nil {
		e.Use(h.Metrics.Middleware)
	}

	e.GET("/", func(c echo.Context) error {
		return utils.Success(c, http.StatusOK, "Welcome to the we roam bags store", nil)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/api/v1/public", h.PublicDir)

	protect := h.Auth.Protect
	adminOnly := custommw.RestrictTo(models.RoleAdmin)
	anyRole := custommw.RestrictTo(models.RoleAdmin, models.RoleUser)
	userOnly := custommw.RestrictTo(models.RoleUser)

	bag := e.Group("/api/v1/bag")
	bag.GET("/get-bags", h.Bags.GetBags)
	bag.GET("/get-bag/:id", h.Bags.GetBag, protect, anyRole)
	bag.POST("/create-bag", h.Bags.CreateBag, protect, adminOnly)
	bag.PATCH("/update-bag/:id", h.Bags.UpdateBag, protect, adminOnly)
	bag.DELETE("/delete-bag/:id", h.Bags.DeleteBag, protect, adminOnly)
	bag.GET("/get-categories", h.Bags.GetCategories)
	bag.GET("/get-sub-categories", h.Bags.GetSubCategories)
	bag.PATCH("/update-category", h.Bags.UpdateCategory, protect, adminOnly)

	blog := e.Group("/api/v1/blog")
	blog.GET("/get-blogs", h.Blogs.GetBlogs)
	blog.GET("/get-blog/:id", h.Blogs.GetBlog, protect, anyRole)
	blog.GET("/get-contents", h.Blogs.GetContents, protect, adminOnly)
	blog.POST("/create-blog", h.Blogs.CreateBlog, protect, adminOnly)
	blog.PATCH("/update-blog/:id", h.Blogs.UpdateBlog, protect, adminOnly)
	blog.DELETE("/delete-blog/:id", h.Blogs.DeleteBlog, protect, adminOnly)
	blog.DELETE("/delete-content/:id", h.Blogs.DeleteContent, protect, adminOnly)

	contact := e.Group("/api/v1/contact")
	contact.POST("/create-contact", h.Contacts.CreateContact)
	contact.GET("/get-contacts", h.Contacts.GetContacts, protect, adminOnly)
	contact.GET("/get-contact/:id", h.Contacts.GetContact, protect, adminOnly)
	contact.PATCH("/update-contact/:id", h.Contacts.UpdateContact, protect, adminOnly)
	contact.DELETE("/delete-contact/:id", h.Contacts.DeleteContact, protect, adminOnly)

	order := e.Group("/api/v1/order")
	order.GET("/get-orders", h.Orders.GetOrders, protect, adminOnly)
	order.POST("/create-order", h.Orders.CreateOrder, protect, userOnly)
	order.POST("/verify-payment", h.Orders.VerifyPayment, protect, userOnly)
	order.GET("/get-order/:id", h.Orders.GetOrder)
	order.PATCH("/update-order/:id", h.Orders.UpdateOrder, protect, adminOnly)
	order.DELETE("/delete-order/:id", h.Orders.DeleteOrder, protect, adminOnly)

	user := e.Group("/api/v1/user")
	user.POST("/register", h.Users.Register)
	user.POST("/login", h.Users.Login)
	user.GET("/auth/google", h.Users.GoogleRedirect)
	user.GET("/auth/google/callback", h.Users.GoogleCallback)
	user.GET("/auth/facebook", h.Users.FacebookRedirect)
	user.GET("/auth/facebook/callback", h.Users.FacebookCallback)
	user.GET("/me", h.Users.GetMe, protect)
	user.GET("/get-users", h.Users.GetUsers, protect, adminOnly)
	user.PATCH("/update-user", h.Users.UpdateUser, protect)
	user.DELETE("/delete-user", h.Users.DeleteUser, protect)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return utils.Fail(c, http.StatusNotFound,
			fmt.Sprintf("Can't find %s %s on this server!", c.Request().Method, c.Request().URL.Path))
	})
}

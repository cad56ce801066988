// Package docs holds the OpenAPI description of the page surface.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Health check",
                "description": "Check if the server is running",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/health/detailed": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Detailed health check",
                "description": "Database and session store status",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "All dependencies healthy"
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Readiness check",
                "description": "Reports whether the server can take traffic",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Not ready"
                    }
                }
            }
        },
        "/": {
            "get": {
                "tags": [
                    "Calendar"
                ],
                "summary": "Month calendar",
                "description": "Month grid with per-day task counts",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year, defaults to the current year",
                        "name": "year",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Month 1-12, defaults to the current month",
                        "name": "month",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    },
                    "400": {
                        "description": "Invalid year or month"
                    }
                }
            }
        },
        "/calendar/export.ics": {
            "get": {
                "tags": [
                    "Calendar"
                ],
                "summary": "Export month",
                "description": "The month's tasks as iCalendar VTODOs",
                "produces": [
                    "text/calendar"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Month 1-12",
                        "name": "month",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "iCalendar document"
                    },
                    "400": {
                        "description": "Invalid year or month",
                        "schema": {
                            "$ref": "#/definitions/MessageResponse"
                        }
                    },
                    "404": {
                        "description": "No tasks in the month",
                        "schema": {
                            "$ref": "#/definitions/MessageResponse"
                        }
                    }
                }
            }
        },
        "/login/": {
            "get": {
                "tags": [
                    "Auth"
                ],
                "summary": "Login form",
                "description": "Renders the login page",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Local path to continue to",
                        "name": "next",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Log in",
                "description": "Checks credentials and opens a session",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Username",
                        "name": "username",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Password",
                        "name": "password",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Local path to continue to",
                        "name": "next",
                        "in": "formData",
                        "required": false
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            }
        },
        "/logout/": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Log out",
                "description": "Ends the session",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    }
                }
            }
        },
        "/register/": {
            "get": {
                "tags": [
                    "Auth"
                ],
                "summary": "Registration form",
                "description": "Renders the registration page",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Register",
                "description": "Creates an account and logs it in",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Username",
                        "name": "username",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Password",
                        "name": "password1",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Password confirmation",
                        "name": "password2",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            }
        },
        "/day/{year}/{month}/{day}/": {
            "get": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Day agenda",
                "description": "Tasks of the day and the 04:00-22:00 hourly grid",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Month",
                        "name": "month",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Day",
                        "name": "day",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    },
                    "404": {
                        "description": "Invalid date"
                    }
                }
            },
            "post": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Create task",
                "description": "Adds a task on the day",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Month",
                        "name": "month",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Day",
                        "name": "day",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Title",
                        "name": "title",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Description",
                        "name": "description",
                        "in": "formData",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Time of day, HH:MM",
                        "name": "time",
                        "in": "formData",
                        "required": false
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            }
        },
        "/task/toggle/{id}/": {
            "post": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Toggle task",
                "description": "Flips the completed flag",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "404": {
                        "description": "Task not found or not owned",
                        "schema": {
                            "$ref": "#/definitions/MessageResponse"
                        }
                    }
                }
            }
        },
        "/task/edit/{id}/": {
            "post": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Edit task",
                "description": "Updates the supplied fields",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Title",
                        "name": "title",
                        "in": "formData",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Description",
                        "name": "description",
                        "in": "formData",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Time of day, HH:MM",
                        "name": "time",
                        "in": "formData",
                        "required": false
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "404": {
                        "description": "Task not found or not owned",
                        "schema": {
                            "$ref": "#/definitions/MessageResponse"
                        }
                    }
                }
            }
        },
        "/task/delete/{id}/": {
            "post": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Delete task",
                "description": "Removes the task",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "404": {
                        "description": "Task not found or not owned",
                        "schema": {
                            "$ref": "#/definitions/MessageResponse"
                        }
                    }
                }
            }
        },
        "/profile/": {
            "get": {
                "tags": [
                    "Profile"
                ],
                "summary": "Profile",
                "description": "Renders the current user",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Profile"
                ],
                "summary": "Update profile",
                "description": "Changes username, email and names",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Username",
                        "name": "username",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Email",
                        "name": "email",
                        "in": "formData",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "First name",
                        "name": "first_name",
                        "in": "formData",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Last name",
                        "name": "last_name",
                        "in": "formData",
                        "required": false
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            }
        },
        "/change-password/": {
            "get": {
                "tags": [
                    "Profile"
                ],
                "summary": "Password form",
                "description": "Renders the password change page",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Profile"
                ],
                "summary": "Change password",
                "description": "Replaces the password, keeping this browser logged in",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Current password",
                        "name": "old_password",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "New password",
                        "name": "new_password1",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "New password confirmation",
                        "name": "new_password2",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Redirect"
                    },
                    "200": {
                        "description": "Page rendered",
                        "schema": {
                            "$ref": "#/definitions/Page"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Page": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "string",
                    "example": "day_detail"
                },
                "user": {
                    "type": "object"
                },
                "messages": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Flash"
                    }
                },
                "errors": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "data": {
                    "type": "object"
                }
            }
        },
        "Flash": {
            "type": "object",
            "properties": {
                "level": {
                    "type": "string",
                    "example": "success"
                },
                "message": {
                    "type": "string",
                    "example": "Task added successfully!"
                }
            }
        },
        "MessageResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Planner",
	Description:      "Personal task calendar with a monthly view and an hourly day agenda",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

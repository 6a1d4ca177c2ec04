// Package logging builds the logrus logger shared by dsexport binaries.
package logging

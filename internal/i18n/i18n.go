// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package i18n holds the user-facing message tables. Each language is a
// complete typed table, so a missing translation is a compile error
// rather than a silent dotted-path miss at runtime. Lookup falls back to
// English for unknown language tags.
package i18n

import "strings"

// Messages is the full set of user-facing strings.
type Messages struct {
	ValidationFailed string
	AIUnavailable    string
	NoRecipesFound   string
	StorageError     string
	CapacityExceeded string
	RecipeNotFound   string
	RecipeSaved      string
	RecipeRemoved    string
	SearchCleared    string
	ImageUnavailable string
}

var english = Messages{
	ValidationFailed: "Please check your search: at least one ingredient is required.",
	AIUnavailable:    "The recipe service is temporarily unavailable. Please try again.",
	NoRecipesFound:   "No suitable recipes found for these ingredients.",
	StorageError:     "Your recipes could not be stored right now.",
	CapacityExceeded: "This recipe is too large to store.",
	RecipeNotFound:   "This recipe is no longer available.",
	RecipeSaved:      "Recipe saved.",
	RecipeRemoved:    "Recipe removed.",
	SearchCleared:    "Search cleared.",
	ImageUnavailable: "Image unavailable.",
}

var tables = map[string]Messages{
	"en": english,
	"de": {
		ValidationFailed: "Bitte Suche prüfen: mindestens eine Zutat ist erforderlich.",
		AIUnavailable:    "Der Rezeptdienst ist vorübergehend nicht erreichbar. Bitte erneut versuchen.",
		NoRecipesFound:   "Keine passenden Rezepte für diese Zutaten gefunden.",
		StorageError:     "Deine Rezepte konnten gerade nicht gespeichert werden.",
		CapacityExceeded: "Dieses Rezept ist zu groß zum Speichern.",
		RecipeNotFound:   "Dieses Rezept ist nicht mehr verfügbar.",
		RecipeSaved:      "Rezept gespeichert.",
		RecipeRemoved:    "Rezept entfernt.",
		SearchCleared:    "Suche zurückgesetzt.",
		ImageUnavailable: "Bild nicht verfügbar.",
	},
	"es": {
		ValidationFailed: "Revisa tu búsqueda: se necesita al menos un ingrediente.",
		AIUnavailable:    "El servicio de recetas no está disponible por ahora. Inténtalo de nuevo.",
		NoRecipesFound:   "No se encontraron recetas adecuadas para estos ingredientes.",
		StorageError:     "Tus recetas no se pudieron guardar en este momento.",
		CapacityExceeded: "Esta receta es demasiado grande para guardarla.",
		RecipeNotFound:   "Esta receta ya no está disponible.",
		RecipeSaved:      "Receta guardada.",
		RecipeRemoved:    "Receta eliminada.",
		SearchCleared:    "Búsqueda borrada.",
		ImageUnavailable: "Imagen no disponible.",
	},
	"fr": {
		ValidationFailed: "Vérifiez votre recherche : au moins un ingrédient est requis.",
		AIUnavailable:    "Le service de recettes est momentanément indisponible. Veuillez réessayer.",
		NoRecipesFound:   "Aucune recette adaptée trouvée pour ces ingrédients.",
		StorageError:     "Vos recettes n'ont pas pu être enregistrées pour le moment.",
		CapacityExceeded: "Cette recette est trop volumineuse pour être enregistrée.",
		RecipeNotFound:   "Cette recette n'est plus disponible.",
		RecipeSaved:      "Recette enregistrée.",
		RecipeRemoved:    "Recette supprimée.",
		SearchCleared:    "Recherche effacée.",
		ImageUnavailable: "Image indisponible.",
	},
}

// For returns the message table for a language tag. Region subtags are
// ignored ("de-AT" gets the "de" table); unknown languages get English.
func For(lang string) Messages {
	tag := strings.ToLower(strings.TrimSpace(lang))
	if msgs, ok := tables[tag]; ok {
		return msgs
	}
	if base, _, found := strings.Cut(tag, "-"); found {
		if msgs, ok := tables[base]; ok {
			return msgs
		}
	}
	return english
}

// Supported lists the language tags with a complete table.
func Supported() []string {
	langs := make([]string, 0, len(tables))
	for tag := range tables {
		langs = append(langs, tag)
	}
	return langs
}

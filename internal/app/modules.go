package app

import (
	"github.com/vk/themeforge/internal/registry"
	"github.com/vk/themeforge/modules/clean"
	"github.com/vk/themeforge/modules/fonts"
	"github.com/vk/themeforge/modules/images"
	"github.com/vk/themeforge/modules/markup"
	"github.com/vk/themeforge/modules/scripts"
	"github.com/vk/themeforge/modules/starter"
	"github.com/vk/themeforge/modules/styles"
	"github.com/vk/themeforge/modules/themeinfo"
	"github.com/vk/themeforge/modules/wordpress"
)

// coreModules is the definitive list of all modules that are compiled into
// the themeforge binary. The dev loop tasks are registered by the App.
func coreModules() []registry.Module {
	return []registry.Module{
		&wordpress.Module{},
		&starter.Module{},
		&themeinfo.Module{},
		&clean.Module{},
		&styles.Module{},
		&scripts.Module{},
		&images.Module{},
		&fonts.Module{},
		&markup.Module{},
	}
}

package catalog

// ServiceType classifies a billed service line
type ServiceType string

const (
	ServiceTypePlacement     ServiceType = "PLACEMENT"
	ServiceTypeDesign        ServiceType = "DESIGN"
	ServiceTypeInstallation  ServiceType = "INSTALLATION"
	ServiceTypeDismantling   ServiceType = "DISMANTLING"
	ServiceTypeManufacturing ServiceType = "MANUFACTURING"
	ServiceTypeProduction    ServiceType = "PRODUCTION"
	ServiceTypeConsultation  ServiceType = "CONSULTATION"
	ServiceTypeOther         ServiceType = "OTHER"
)

// IsValid checks if the service type is known
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypePlacement, ServiceTypeDesign, ServiceTypeInstallation, ServiceTypeDismantling,
		ServiceTypeManufacturing, ServiceTypeProduction, ServiceTypeConsultation, ServiceTypeOther:
		return true
	}
	return false
}

// String returns the string representation of ServiceType
func (t ServiceType) String() string {
	return string(t)
}

// Label returns the name shown in exported documents
func (t ServiceType) Label() string {
	switch t {
	case ServiceTypePlacement:
		return "Размещение"
	case ServiceTypeDesign:
		return "Дизайн"
	case ServiceTypeInstallation:
		return "Монтаж"
	case ServiceTypeDismantling:
		return "Демонтаж"
	case ServiceTypeManufacturing:
		return "Изготовление"
	case ServiceTypeProduction:
		return "Производство"
	case ServiceTypeConsultation:
		return "Консультация"
	case ServiceTypeOther:
		return "Другое"
	}
	return string(t)
}

// AllServiceTypes returns every service type in display order
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceTypePlacement, ServiceTypeDesign, ServiceTypeInstallation, ServiceTypeDismantling,
		ServiceTypeManufacturing, ServiceTypeProduction, ServiceTypeConsultation, ServiceTypeOther,
	}
}

// PropertyObjectType classifies a leasable advertising object
type PropertyObjectType string

const (
	PropertyObjectTypeLEDScreen PropertyObjectType = "LED_SCREEN"
	PropertyObjectTypePavilion  PropertyObjectType = "PAVILION"
	PropertyObjectTypeShield    PropertyObjectType = "SHIELD"
	PropertyObjectTypeBox       PropertyObjectType = "BOX"
	PropertyObjectTypeBanner    PropertyObjectType = "BANNER"
	PropertyObjectTypeSignboard PropertyObjectType = "SIGNBOARD"
	PropertyObjectTypeInterior  PropertyObjectType = "INTERIOR"
	PropertyObjectTypeOther     PropertyObjectType = "OTHER"
)

// IsValid checks if the object type is known
func (t PropertyObjectType) IsValid() bool {
	switch t {
	case PropertyObjectTypeLEDScreen, PropertyObjectTypePavilion, PropertyObjectTypeShield,
		PropertyObjectTypeBox, PropertyObjectTypeBanner, PropertyObjectTypeSignboard,
		PropertyObjectTypeInterior, PropertyObjectTypeOther:
		return true
	}
	return false
}

// String returns the string representation of PropertyObjectType
func (t PropertyObjectType) String() string {
	return string(t)
}

// Label returns the Russian display name used in forms and exports
func (t PropertyObjectType) Label() string {
	switch t {
	case PropertyObjectTypeLEDScreen:
		return "LED-экран"
	case PropertyObjectTypePavilion:
		return "Павильон"
	case PropertyObjectTypeShield:
		return "Щит"
	case PropertyObjectTypeBox:
		return "Короб"
	case PropertyObjectTypeBanner:
		return "Баннер"
	case PropertyObjectTypeSignboard:
		return "Вывеска"
	case PropertyObjectTypeInterior:
		return "Интерьерная реклама"
	case PropertyObjectTypeOther:
		return "Другое"
	}
	return string(t)
}

// AllPropertyObjectTypes returns every object type in display order
func AllPropertyObjectTypes() []PropertyObjectType {
	return []PropertyObjectType{
		PropertyObjectTypeLEDScreen, PropertyObjectTypePavilion, PropertyObjectTypeShield,
		PropertyObjectTypeBox, PropertyObjectTypeBanner, PropertyObjectTypeSignboard,
		PropertyObjectTypeInterior, PropertyObjectTypeOther,
	}
}

// BusinessCategory is the line of business of a tenant under contract
type BusinessCategory string

const (
	BusinessCategorySausage       BusinessCategory = "SAUSAGE"
	BusinessCategoryDrinks        BusinessCategory = "DRINKS"
	BusinessCategoryCheese        BusinessCategory = "CHEESE"
	BusinessCategorySeafood       BusinessCategory = "SEAFOOD"
	BusinessCategoryConfectionery BusinessCategory = "CONFECTIONERY"
	BusinessCategoryRestaurant    BusinessCategory = "RESTAURANT"
	BusinessCategoryGrocery       BusinessCategory = "GROCERY"
	BusinessCategoryServices      BusinessCategory = "SERVICES"
	BusinessCategoryOther         BusinessCategory = "OTHER"
)

// IsValid checks if the category is known
func (c BusinessCategory) IsValid() bool {
	switch c {
	case BusinessCategorySausage, BusinessCategoryDrinks, BusinessCategoryCheese,
		BusinessCategorySeafood, BusinessCategoryConfectionery, BusinessCategoryRestaurant,
		BusinessCategoryGrocery, BusinessCategoryServices, BusinessCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of BusinessCategory
func (c BusinessCategory) String() string {
	return string(c)
}

// Label returns the Russian display name
func (c BusinessCategory) Label() string {
	switch c {
	case BusinessCategorySausage:
		return "Колбаса"
	case BusinessCategoryDrinks:
		return "Напитки"
	case BusinessCategoryCheese:
		return "Сыр"
	case BusinessCategorySeafood:
		return "Морепродукты"
	case BusinessCategoryConfectionery:
		return "Кондитерские изделия"
	case BusinessCategoryRestaurant:
		return "Ресторан/Кафе"
	case BusinessCategoryGrocery:
		return "Продуктовый магазин"
	case BusinessCategoryServices:
		return "Услуги"
	case BusinessCategoryOther:
		return "Другое"
	}
	return string(c)
}

// AllBusinessCategories returns every category in display order
func AllBusinessCategories() []BusinessCategory {
	return []BusinessCategory{
		BusinessCategorySausage, BusinessCategoryDrinks, BusinessCategoryCheese,
		BusinessCategorySeafood, BusinessCategoryConfectionery, BusinessCategoryRestaurant,
		BusinessCategoryGrocery, BusinessCategoryServices, BusinessCategoryOther,
	}
}

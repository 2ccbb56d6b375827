/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package service

import (
	"time"

	"github.com/tomoncle/storefront/merge"
	"github.com/tomoncle/storefront/models"
)

// Labels names the operations of one resource for OperationError.
type Labels struct {
	List   string
	Get    string
	Create string
	Update string
	Delete string
}

// Descriptor is the per-resource configuration of a ResourceService.
type Descriptor[T any] struct {
	Resource string
	Labels   Labels
	Editable merge.Fields[T]
	// OnCreate runs before the first save with the creation instant.
	OnCreate func(entity *T, now time.Time)
}

var UserDescriptor = Descriptor[models.User]{
	Resource: "user",
	Labels: Labels{
		List:   "RetrieveUsers",
		Get:    "RetrieveUserById",
		Create: "CreateNewUser",
		Update: "UpdateUserById",
		Delete: "DeleteUserById",
	},
	Editable: models.UserFields,
	OnCreate: (*models.User).StampRegistration,
}

var OrderDescriptor = Descriptor[models.Order]{
	Resource: "order",
	Labels: Labels{
		List:   "RetrieveOrders",
		Get:    "RetrieveOrderById",
		Create: "CreateNewOrder",
		Update: "UpdateOrderById",
		Delete: "DeleteOrderById",
	},
	Editable: models.OrderFields,
}

var ProductDescriptor = Descriptor[models.Product]{
	Resource: "product",
	Labels: Labels{
		List:   "RetrieveProducts",
		Get:    "RetrieveProductById",
		Create: "CreateNewProduct",
		Update: "UpdateProductById",
		Delete: "DeleteProductById",
	},
	Editable: models.ProductFields,
}
